package handlers

import (
	"context"

	apperrors "walletbridge/internal/errors"
	"walletbridge/internal/log"
	"walletbridge/internal/models"
	"walletbridge/internal/utils"
	"walletbridge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Invoker calls a named operation on the wallet service.
type Invoker interface {
	Invoke(ctx context.Context, operation string, args *models.Payload) (*models.Envelope, error)
}

type WalletHandler struct {
	invoker Invoker
}

func NewWalletHandler(invoker Invoker) *WalletHandler {
	return &WalletHandler{
		invoker: invoker,
	}
}

func (h *WalletHandler) RegisterClient(c *fiber.Ctx) error {
	return h.dispatch(c, models.OpRegisterClient, bodyPayload)
}

func (h *WalletHandler) RechargeWallet(c *fiber.Ctx) error {
	return h.dispatch(c, models.OpRechargeWallet, bodyPayload)
}

func (h *WalletHandler) InitiatePayment(c *fiber.Ctx) error {
	return h.dispatch(c, models.OpInitiatePayment, bodyPayload)
}

func (h *WalletHandler) ConfirmPayment(c *fiber.Ctx) error {
	return h.dispatch(c, models.OpConfirmPayment, bodyPayload)
}

// GetWalletBalance reads its input from the query string.
func (h *WalletHandler) GetWalletBalance(c *fiber.Ctx) error {
	return h.dispatch(c, models.OpGetWalletBalance, queryPayload)
}

type payloadReader func(c *fiber.Ctx) (*models.Payload, error)

// dispatch validates the input, forwards it wrapped under the operation's
// request key and relays the service envelope unchanged.
func (h *WalletHandler) dispatch(c *fiber.Ctx, op models.Operation, read payloadReader) error {
	ctx := log.WithLogField(c.UserContext(), "op", op.Name)

	payload, err := read(c)
	if err != nil {
		log.L(ctx).Debugf("rejecting request body: %v", err)
		return utils.BadRequest(c, "request body must be a JSON object")
	}

	if env := validation.For(op)(payload); env != nil {
		log.L(ctx).Debugf("validation failed: %s", env.MessageError)
		return utils.Respond(c, fiber.StatusBadRequest, env)
	}

	env, err := h.invoker.Invoke(ctx, op.Name, op.Wrap(payload))
	if err != nil {
		if kind, ok := apperrors.KindOf(err); ok {
			log.L(ctx).WithField("kind", kind).Errorf("wallet service call failed: %v", err)
		} else {
			log.L(ctx).Errorf("wallet service call failed: %v", err)
		}
		return utils.InternalError(c, err.Error())
	}
	if env == nil {
		log.L(ctx).Error("wallet service returned no envelope")
		return utils.InternalError(c, "empty reply from wallet service")
	}

	log.L(ctx).Debugf("wallet service replied success=%t codError=%s", env.Success, env.CodError)
	return utils.Reply(c, env)
}

func bodyPayload(c *fiber.Ctx) (*models.Payload, error) {
	return models.ParsePayload(c.Body())
}

// queryPayload keeps parameters in query order; a repeated name keeps its
// last value.
func queryPayload(c *fiber.Ctx) (*models.Payload, error) {
	p := models.NewPayload()
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		p.Set(string(key), string(value))
	})
	return p, nil
}
