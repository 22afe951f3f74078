// Package validation checks REST inputs before they are forwarded to the
// wallet service. Validators are pure: they return nil when the payload is
// acceptable and a complete validation envelope otherwise.
package validation

import (
	"walletbridge/internal/models"
)

// Func validates one operation's input.
type Func func(p *models.Payload) *models.Envelope

// ValidateRegisterClient requires document, fullName, email and phone.
func ValidateRegisterClient(p *models.Payload) *models.Envelope {
	v := newChecker(p)
	v.Require("document", "fullName", "email", "phone")
	return v.Result()
}

// ValidateRechargeWallet requires document, phone and a positive amount.
func ValidateRechargeWallet(p *models.Payload) *models.Envelope {
	return validateAmountRequest(p)
}

// ValidateInitiatePayment requires document, phone and a positive amount.
func ValidateInitiatePayment(p *models.Payload) *models.Envelope {
	return validateAmountRequest(p)
}

func ValidateConfirmPayment(p *models.Payload) *models.Envelope {
	v := newChecker(p)
	v.Require("sessionId", "token")
	return v.Result()
}

// ValidateGetWalletBalance checks the query string of a balance lookup.
func ValidateGetWalletBalance(p *models.Payload) *models.Envelope {
	v := newChecker(p)
	v.Require("document", "phone")
	return v.Result()
}

// amount is missing only when absent or null. Zero, negatives and
// non-numbers are present but invalid.
func validateAmountRequest(p *models.Payload) *models.Envelope {
	v := newChecker(p)
	v.Require("document", "phone")
	v.RequireSet("amount")
	if env := v.Result(); env != nil {
		return env
	}

	amount, _ := p.Get("amount")
	if !positiveNumber(amount) {
		return models.ValidationError("amount must be a number greater than 0")
	}
	return nil
}

// For returns the validator of an operation.
func For(op models.Operation) Func {
	switch op.Name {
	case models.OpRegisterClient.Name:
		return ValidateRegisterClient
	case models.OpRechargeWallet.Name:
		return ValidateRechargeWallet
	case models.OpInitiatePayment.Name:
		return ValidateInitiatePayment
	case models.OpConfirmPayment.Name:
		return ValidateConfirmPayment
	case models.OpGetWalletBalance.Name:
		return ValidateGetWalletBalance
	default:
		return nil
	}
}
