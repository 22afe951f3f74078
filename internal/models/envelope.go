package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Reserved envelope codes.
const (
	CodeOK              = "00"
	CodeValidation      = "01"
	CodeUnauthorized    = "97"
	CodeTooManyRequests = "98"
	CodeInternal        = "99"
)

// Envelope is the uniform body returned on every /api response.
// A failed envelope never carries data.
type Envelope struct {
	Success      bool   `json:"success"`
	CodError     string `json:"codError"`
	MessageError string `json:"messageError"`
	Data         any    `json:"data"`
}

// ErrorEnvelope builds a failed envelope with the given code.
func ErrorEnvelope(code, message string) *Envelope {
	return &Envelope{
		Success:      false,
		CodError:     code,
		MessageError: message,
		Data:         nil,
	}
}

func ValidationError(message string) *Envelope {
	return ErrorEnvelope(CodeValidation, message)
}

func InternalError(message string) *Envelope {
	return ErrorEnvelope(CodeInternal, message)
}

// EnvelopeFromResult converts the value found under an operation's result
// key into an Envelope. Decoded SOAP records carry every scalar as text
// unless the service typed them, so success also accepts "true"/"1".
func EnvelopeFromResult(v any) (*Envelope, error) {
	switch r := v.(type) {
	case *Envelope:
		if r == nil {
			return nil, fmt.Errorf("result is nil")
		}
		return r, nil
	case Envelope:
		return &r, nil
	case *Payload:
		if r == nil {
			return nil, fmt.Errorf("result is nil")
		}
		return envelopeFromRecord(r.values)
	case map[string]any:
		return envelopeFromRecord(r)
	default:
		return nil, fmt.Errorf("result is %T, not a record", v)
	}
}

func envelopeFromRecord(rec map[string]any) (*Envelope, error) {
	success, err := toBool(rec["success"])
	if err != nil {
		return nil, fmt.Errorf("success: %w", err)
	}

	env := &Envelope{
		Success:      success,
		CodError:     toString(rec["codError"]),
		MessageError: toString(rec["messageError"]),
		Data:         rec["data"],
	}
	if s, ok := env.Data.(string); ok && s == "" {
		env.Data = nil
	}
	return env, nil
}

// intBool accepts the 0/1 spelling some services use for xsd:int flags.
func intBool(i int64) (bool, error) {
	switch i {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected flag %d", i)
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case string:
		if strings.TrimSpace(b) == "" {
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(b))
	case int:
		return intBool(int64(b))
	case int64:
		return intBool(b)
	case float64:
		if b != float64(int64(b)) {
			return false, fmt.Errorf("unexpected flag %v", b)
		}
		return intBool(int64(b))
	case json.Number:
		return toBool(b.String())
	default:
		return false, fmt.Errorf("unexpected type %T", v)
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
