package media

import (
	"errors"
	"io"
	"mime/multipart"

	mediasvc "ngo-connect-backend/internal/application/media"
	"ngo-connect-backend/internal/infrastructure/storage"
	"ngo-connect-backend/internal/middleware"
	"ngo-connect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles image upload handlers with the service.
type Handlers struct {
	Service *mediasvc.Service
	// Files is set when images live in the in-process store and must be served by the API.
	Files *storage.Memory
}

var formFields = []mediasvc.Kind{mediasvc.KindLogo, mediasvc.KindCoverPhoto}

// UploadImages POST /profile/upload-images (multipart: logo, cover_photo)
func (h *Handlers) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.ErrorCode(c, fiber.StatusBadRequest, "no_images", "Expected a multipart form with logo or cover_photo", nil)
	}

	var uploads []mediasvc.Upload
	for _, kind := range formFields {
		files := form.File[string(kind)]
		if len(files) == 0 {
			continue
		}
		fh := files[0]
		if err := h.Service.CheckSize(fh.Size); err != nil {
			return response.ErrorCode(c, fiber.StatusRequestEntityTooLarge, "file_too_large", err.Error(),
				fiber.Map{"type": kind, "filename": fh.Filename})
		}
		data, err := readPart(fh)
		if err != nil {
			log.Error().Err(err).Str("field", string(kind)).Msg("media: failed to read upload")
			return response.BadRequest(c, "Could not read uploaded file")
		}
		uploads = append(uploads, mediasvc.Upload{Kind: kind, Filename: fh.Filename, Size: fh.Size, Data: data})
	}

	out, err := h.Service.UploadImages(c.UserContext(), middleware.GetUser(c).UserID, uploads)
	switch {
	case errors.Is(err, mediasvc.ErrNoImages):
		return response.ErrorCode(c, fiber.StatusBadRequest, "no_images", err.Error(), nil)
	case errors.Is(err, mediasvc.ErrOrgNotFound):
		return response.ErrorCode(c, fiber.StatusNotFound, "org_not_found", err.Error(), nil)
	case err != nil:
		log.Error().Err(err).Msg("media: upload failed")
		return response.Internal(c, "persistence_error")
	}

	status := out.Status()
	switch status {
	case fiber.StatusOK, fiber.StatusMultiStatus:
		return response.SuccessStatus(c, status, "Images processed", out, nil)
	case fiber.StatusInternalServerError:
		return response.ErrorCode(c, status, "upload_failed", "Image upload failed", out)
	default:
		return response.ErrorCode(c, status, "invalid_images", "No image could be accepted", out)
	}
}

// Serve GET /media/* streams an object from the in-process store.
func (h *Handlers) Serve(c *fiber.Ctx) error {
	if h.Files == nil {
		return fiber.ErrNotFound
	}
	obj, ok := h.Files.Get(c.Params("*"))
	if !ok {
		return response.ErrorCode(c, fiber.StatusNotFound, "not_found", "Object not found", nil)
	}
	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(obj.Data)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
