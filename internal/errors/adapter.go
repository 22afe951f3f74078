package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure of the SOAP adapter.
type Kind string

const (
	KindUnavailable        Kind = "unavailable"
	KindOperationNotFound  Kind = "operation_not_found"
	KindEncode             Kind = "encode"
	KindInvoke             Kind = "invoke"
	KindUnexpectedResponse Kind = "unexpected_response"
)

// AdapterError is returned for every failure to reach, resolve or parse
// the remote service. Business failures reported by the service are not
// errors; they come back as envelopes with success=false.
type AdapterError struct {
	Kind      Kind
	Operation string
	Err       error
}

func NewAdapterError(kind Kind, operation string, err error) *AdapterError {
	return &AdapterError{Kind: kind, Operation: operation, Err: err}
}

func (e *AdapterError) Error() string {
	switch e.Kind {
	case KindUnavailable:
		return fmt.Sprintf("SOAP client unavailable: %v", e.Err)
	case KindOperationNotFound:
		return fmt.Sprintf("SOAP operation %s not found", e.Operation)
	case KindEncode:
		return fmt.Sprintf("SOAP request for %s could not be encoded: %v", e.Operation, e.Err)
	case KindUnexpectedResponse:
		return fmt.Sprintf("unexpected SOAP response for %s: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("SOAP call %s failed: %v", e.Operation, e.Err)
	}
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// KindOf reports the adapter error kind carried anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var ae *AdapterError
	if stderrors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

// IsKind reports whether err is an adapter error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
