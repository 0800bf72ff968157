package translation

import (
	"errors"

	translatesvc "ngo-connect-backend/internal/application/translation"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles the translation proxy endpoints.
type Handlers struct {
	Service *translatesvc.Service
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

type batchRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"targetLanguage"`
}

// Translate POST /main/translate
func (h *Handlers) Translate(c *fiber.Ctx) error {
	var req translateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	res, err := h.Service.Translate(c.UserContext(), req.Text, req.TargetLanguage)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Translated", res, nil)
}

// TranslateBatch POST /main/translate-batch
func (h *Handlers) TranslateBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	out, err := h.Service.TranslateBatch(c.UserContext(), req.Texts, req.TargetLanguage)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Translated", fiber.Map{
		"translations":   out,
		"targetLanguage": req.TargetLanguage,
	}, fiber.Map{"count": len(out)})
}

// SupportedLanguages GET /api/supported-languages
func (h *Handlers) SupportedLanguages(c *fiber.Ctx) error {
	return response.Success(c, "Supported languages", fiber.Map{"languages": translatesvc.SupportedLanguages}, nil)
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, translatesvc.ErrMissingFields):
		return response.ErrorCode(c, fiber.StatusBadRequest, "missing_fields", err.Error(), nil)
	case errors.Is(err, translatesvc.ErrUnsupportedLanguage):
		return response.ErrorCode(c, fiber.StatusBadRequest, "unsupported_language", err.Error(), nil)
	case errors.Is(err, translatesvc.ErrTooManyTexts):
		return response.ErrorCode(c, fiber.StatusBadRequest, "too_many_texts", err.Error(),
			fiber.Map{"max": translatesvc.MaxBatch})
	default:
		log.Error().Err(err).Msg("translation failed")
		return response.Internal(c, "translation_error")
	}
}
