package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://stripe.com/", "stripe.com"},
		{"shopify.com", "shopify.com"},
		{"http://example.com", "example.com"},
		{"https://example.com/pricing/", "example.com/pricing"},
		{"example.com//", "example.com/"},
		{"HTTPS://example.com", "HTTPS://example.com"},
		{"ftp://example.com/", "ftp://example.com"},
		{"www.stripe.com", "www.stripe.com"},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{
		"https://stripe.com/",
		"http://shopify.com",
		"stripe.com",
		"https://api.example.com/v1/",
		"Stripe.COM",
		"HTTP://upper.example/",
	} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestNormalize_StripsOnlyOneScheme(t *testing.T) {
	assert.Equal(t, "http://example.com", Normalize("https://http://example.com"))
}
