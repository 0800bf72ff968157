package payments

import (
	"errors"

	paysvc "ngo-connect-backend/internal/application/payments"
	"ngo-connect-backend/internal/middleware"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles the donation QR endpoint.
type Handlers struct {
	Service *paysvc.Service
}

// GenerateQR POST /profile/generate-qr
func (h *Handlers) GenerateQR(c *fiber.Ctx) error {
	var in paysvc.GenerateQRInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	res, err := h.Service.GenerateQR(c.UserContext(), middleware.GetUser(c).UserID, in)
	if err == nil {
		return response.Success(c, "QR code generated", res, nil)
	}
	switch {
	case errors.Is(err, paysvc.ErrMissingFields):
		return response.ErrorCode(c, fiber.StatusBadRequest, "missing_fields", err.Error(), nil)
	case errors.Is(err, paysvc.ErrInvalidAmount):
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_amount", err.Error(), nil)
	case errors.Is(err, paysvc.ErrInvalidTrxCode):
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_trx_code", err.Error(),
			fiber.Map{"allowed": paysvc.TrxCodes})
	case errors.Is(err, paysvc.ErrInvalidSize):
		return response.ErrorCode(c, fiber.StatusBadRequest, "invalid_size", err.Error(), nil)
	case errors.Is(err, paysvc.ErrNotConfigured):
		return response.ErrorCode(c, fiber.StatusServiceUnavailable, "qr_not_configured", err.Error(), nil)
	case errors.Is(err, paysvc.ErrProvider):
		return response.ErrorCode(c, fiber.StatusBadGateway, "qr_provider_error", err.Error(), nil)
	default:
		log.Error().Err(err).Msg("generate qr failed")
		return response.Internal(c, "")
	}
}
