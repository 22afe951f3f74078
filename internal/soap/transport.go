package soap

import (
	"context"
	"fmt"
	"time"

	"walletbridge/internal/models"

	"github.com/go-resty/resty/v2"
)

// Transport moves WSDL documents and SOAP envelopes over HTTP.
// Deadlines come from the resty client timeout and the caller's context.
type Transport struct {
	rc *resty.Client
}

func NewTransport(timeout time.Duration) *Transport {
	return WrapRestyClient(resty.New().SetTimeout(timeout))
}

func WrapRestyClient(rc *resty.Client) *Transport {
	return &Transport{rc: rc}
}

// Fetch downloads a WSDL document.
func (t *Transport) Fetch(ctx context.Context, wsdlURL string) ([]byte, error) {
	res, err := t.rc.R().
		SetContext(ctx).
		SetHeader("Accept", "text/xml, application/xml").
		Get(wsdlURL)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s returned %s", wsdlURL, res.Status())
	}
	return res.Body(), nil
}

// call posts one envelope and decodes the reply. Faults arrive with
// HTTP 500, so the body is inspected before the status.
func (t *Transport) call(ctx context.Context, spec operationSpec, body []byte) (map[string]any, error) {
	req := t.rc.R().SetContext(ctx).SetBody(body)
	switch spec.Version {
	case SOAP12:
		req.SetHeader("Content-Type", fmt.Sprintf(`application/soap+xml; charset=utf-8; action="%s"`, spec.Action))
	default:
		req.SetHeader("Content-Type", "text/xml; charset=utf-8")
		req.SetHeader("SOAPAction", fmt.Sprintf("%q", spec.Action))
	}

	res, err := req.Post(spec.Location)
	if err != nil {
		return nil, err
	}

	reply, decodeErr := decodeResponse(res.Body(), spec.Output)
	if decodeErr != nil {
		if _, isFault := decodeErr.(*Fault); isFault {
			return nil, decodeErr
		}
		if res.IsError() {
			return nil, fmt.Errorf("POST %s returned %s", spec.Location, res.Status())
		}
		return nil, decodeErr
	}
	if res.IsError() {
		return nil, fmt.Errorf("POST %s returned %s", spec.Location, res.Status())
	}
	return reply, nil
}

// bind turns a resolved operation into a callable.
func (t *Transport) bind(spec operationSpec) OperationFunc {
	return func(ctx context.Context, args *models.Payload) (map[string]any, error) {
		body, err := encodeRequest(spec, args)
		if err != nil {
			return nil, &encodeError{err: err}
		}
		return t.call(ctx, spec, body)
	}
}

type encodeError struct {
	err error
}

func (e *encodeError) Error() string { return e.err.Error() }
func (e *encodeError) Unwrap() error { return e.err }
