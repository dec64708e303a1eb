package intel

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

//go:embed schema.json
var reportSchema string

var schemaLoader = gojsonschema.NewStringLoader(reportSchema)

// CheckShape runs minimal type checks over a structured report and returns
// one message per violation. The result is advisory: reports that fail the
// check are still rendered with whatever groups decode.
func CheckShape(raw []byte) []string {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return []string{fmt.Sprintf("(root): %v", err)}
	}
	if result.Valid() {
		return nil
	}

	out := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		out = append(out, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return out
}

// LogShape logs CheckShape violations at warn level.
func LogShape(domain string, raw []byte) {
	issues := CheckShape(raw)
	if len(issues) == 0 {
		return
	}
	zap.L().Warn("intel: report shape issues",
		zap.String("domain", domain),
		zap.Int("count", len(issues)),
		zap.Strings("issues", issues),
	)
}
