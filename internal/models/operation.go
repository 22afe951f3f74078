package models

// Operation names a remote wallet capability and the key its request
// payload must be wrapped under.
type Operation struct {
	Name       string
	RequestKey string
}

// ResultKey is the reply field holding the operation's envelope.
func (o Operation) ResultKey() string {
	return ResultKey(o.Name)
}

// Wrap nests the payload under the operation's request key.
func (o Operation) Wrap(payload *Payload) *Payload {
	return NewPayload().Set(o.RequestKey, payload)
}

// ResultKey returns "<name>Result".
func ResultKey(name string) string {
	return name + "Result"
}

func newOperation(name string) Operation {
	return Operation{Name: name, RequestKey: name + "Request"}
}

var (
	OpRegisterClient   = newOperation("RegisterClient")
	OpRechargeWallet   = newOperation("RechargeWallet")
	OpInitiatePayment  = newOperation("InitiatePayment")
	OpConfirmPayment   = newOperation("ConfirmPayment")
	OpGetWalletBalance = newOperation("GetWalletBalance")
)

// Operations lists every capability exposed over REST.
var Operations = []Operation{
	OpRegisterClient,
	OpRechargeWallet,
	OpInitiatePayment,
	OpConfirmPayment,
	OpGetWalletBalance,
}
