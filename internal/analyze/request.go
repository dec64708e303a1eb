package analyze

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Request is the inbound analysis request.
type Request struct {
	Domain string `json:"domain" validate:"required"`
}

// Validate trims the domain and rejects one that is empty, or that
// normalizes to nothing such as a bare scheme.
func (r *Request) Validate() error {
	r.Domain = strings.TrimSpace(r.Domain)
	if err := validate.Struct(r); err != nil || Normalize(r.Domain) == "" {
		return &ValidationError{Message: "Company domain is required"}
	}
	return nil
}
