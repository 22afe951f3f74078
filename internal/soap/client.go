// Package soap is the adapter between the REST handlers and the wallet
// SOAP service. A Client resolves operations by name against a WSDL
// binding, invokes them and unwraps the conventional <Name>Result field.
package soap

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"walletbridge/internal/config"
	apperrors "walletbridge/internal/errors"
	"walletbridge/internal/log"
	"walletbridge/internal/models"

	"golang.org/x/time/rate"
)

// OperationFunc calls one remote operation and returns the first element
// of its reply, decoded as a record.
type OperationFunc func(ctx context.Context, args *models.Payload) (map[string]any, error)

// Connection is an established client: operation names bound to callables.
// It is immutable once built and shared by every request.
type Connection struct {
	operations map[string]OperationFunc
}

func NewConnection(operations map[string]OperationFunc) *Connection {
	return &Connection{operations: operations}
}

func (c *Connection) Operation(name string) (OperationFunc, bool) {
	op, ok := c.operations[name]
	return op, ok
}

// Operations returns the bound operation names, sorted.
func (c *Connection) Operations() []string {
	names := make([]string, 0, len(c.operations))
	for name := range c.operations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Connector establishes a Connection.
type Connector func(ctx context.Context) (*Connection, error)

// Dial fetches the WSDL at wsdlURL and binds every operation it declares.
func Dial(ctx context.Context, t *Transport, wsdlURL string) (*Connection, error) {
	data, err := t.Fetch(ctx, wsdlURL)
	if err != nil {
		return nil, err
	}
	specs, err := parseWSDL(data, wsdlURL)
	if err != nil {
		return nil, err
	}

	ops := make(map[string]OperationFunc, len(specs))
	for _, spec := range specs {
		ops[spec.Name] = t.bind(spec)
	}
	return NewConnection(ops), nil
}

// Client states reported by Status.
const (
	StatusIdle       = "idle"
	StatusConnecting = "connecting"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

const (
	stateIdle int32 = iota
	stateConnecting
	stateReady
	stateFailed
)

// Client establishes its connection lazily, on the first Invoke, and at
// most once per process. The outcome, connection or error, is kept for
// every later call.
type Client struct {
	connect        Connector
	endpoint       string
	connectTimeout time.Duration
	limiter        *rate.Limiter

	once  sync.Once
	ready chan struct{}
	state atomic.Int32
	conn  *Connection
	err   error
}

type Option func(*Client)

// WithConnectTimeout bounds the lazy connection attempt.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.connectTimeout = d
	}
}

// WithRateLimit throttles outbound calls to rps per second. Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(math.Max(1, math.Ceil(rps))))
	}
}

// WithEndpoint only labels log lines; the connector decides where to connect.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func New(connect Connector, opts ...Option) *Client {
	c := &Client{
		connect: connect,
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClient builds a Client for the configured WSDL endpoint.
func NewClient(cfg config.SOAPConfig) *Client {
	t := NewTransport(cfg.Timeout)
	return New(
		func(ctx context.Context) (*Connection, error) {
			return Dial(ctx, t, cfg.Endpoint)
		},
		WithEndpoint(cfg.Endpoint),
		WithConnectTimeout(cfg.ConnectTimeout),
		WithRateLimit(cfg.MaxRPS),
	)
}

// Invoke calls operation with args and returns the envelope found under
// "<operation>Result". Every failure is an *errors.AdapterError; a reply
// with success=false is not an error.
func (c *Client) Invoke(ctx context.Context, operation string, args *models.Payload) (*models.Envelope, error) {
	conn, err := c.connection(ctx)
	if err != nil {
		return nil, apperrors.NewAdapterError(apperrors.KindUnavailable, operation, err)
	}

	op, ok := conn.Operation(operation)
	if !ok {
		return nil, apperrors.NewAdapterError(apperrors.KindOperationNotFound, operation, nil)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.NewAdapterError(apperrors.KindInvoke, operation, err)
		}
	}

	reply, err := op(ctx, args)
	if err != nil {
		var encErr *encodeError
		if errors.As(err, &encErr) {
			return nil, apperrors.NewAdapterError(apperrors.KindEncode, operation, encErr.err)
		}
		log.L(ctx).Warnf("SOAP call %s failed: %v", operation, err)
		return nil, apperrors.NewAdapterError(apperrors.KindInvoke, operation, err)
	}

	if reply == nil {
		reply = map[string]any{}
	}
	key := models.ResultKey(operation)
	raw, ok := reply[key]
	if !ok {
		return nil, apperrors.NewAdapterError(apperrors.KindUnexpectedResponse, operation, fmt.Errorf("reply has no %s", key))
	}

	env, err := models.EnvelopeFromResult(raw)
	if err != nil {
		return nil, apperrors.NewAdapterError(apperrors.KindUnexpectedResponse, operation, err)
	}
	return env, nil
}

// connection waits for the shared initialization. A caller whose context
// ends stops waiting; the initialization itself carries on for the others.
func (c *Client) connection(ctx context.Context) (*Connection, error) {
	c.once.Do(func() {
		c.state.Store(stateConnecting)
		go c.initialize()
	})

	select {
	case <-c.ready:
		return c.conn, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) initialize() {
	ctx := context.Background()
	if c.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
	}
	ctx = log.WithLogField(ctx, "soap", c.endpoint)

	log.L(ctx).Infof("initializing SOAP client with endpoint %s", c.endpoint)
	conn, err := c.connect(ctx)
	if err == nil && conn == nil {
		err = errors.New("connector returned no connection")
	}
	if err != nil {
		c.err = err
		c.state.Store(stateFailed)
		log.L(ctx).Errorf("SOAP client initialization failed: %v", err)
	} else {
		c.conn = conn
		c.state.Store(stateReady)
		log.L(ctx).Infof("SOAP client ready with operations %v", conn.Operations())
	}
	close(c.ready)
}

// Status reports the connection state without triggering it.
func (c *Client) Status() string {
	switch c.state.Load() {
	case stateConnecting:
		return StatusConnecting
	case stateReady:
		return StatusReady
	case stateFailed:
		return StatusFailed
	default:
		return StatusIdle
	}
}
