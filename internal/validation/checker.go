package validation

import (
	"encoding/json"
	"math"
	"strings"

	"walletbridge/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checker collects missing fields in the order they were required.
type checker struct {
	payload *models.Payload
	missing []string
}

func newChecker(p *models.Payload) *checker {
	return &checker{payload: p}
}

// Require marks fields that must hold a non-empty value.
func (c *checker) Require(fields ...string) {
	for _, f := range fields {
		v, _ := c.payload.Get(f)
		if !present(v) {
			c.missing = append(c.missing, f)
		}
	}
}

// RequireSet marks fields that only need to be sent, whatever their value.
func (c *checker) RequireSet(fields ...string) {
	for _, f := range fields {
		if v, ok := c.payload.Get(f); !ok || v == nil {
			c.missing = append(c.missing, f)
		}
	}
}

func (c *checker) Result() *models.Envelope {
	if len(c.missing) == 0 {
		return nil
	}
	return models.ValidationError("missing required fields: " + strings.Join(c.missing, ", "))
}

// present treats nil, "", false and numeric zero as absent. Objects and
// arrays count as present even when empty.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case *models.Payload:
		return val != nil
	case []any:
		return true
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	default:
		return validate.Var(v, "required") == nil
	}
}

func positiveNumber(v any) bool {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return false
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return false
	}
	if math.IsInf(f, 0) {
		return false
	}
	return validate.Var(f, "gt=0") == nil
}
