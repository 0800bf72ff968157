package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/pkg/metrics"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ObjectStore is where processed images live.
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
	PublicURL(name string) string
}

// DefaultMaxBytes caps a single upload when Service.MaxBytes is zero.
const DefaultMaxBytes = 10 << 20

// Service validates, processes and stores organisation images.
type Service struct {
	DB       *gorm.DB
	Store    ObjectStore
	MaxBytes int64
}

// Upload is one file taken from the multipart form.
type Upload struct {
	Kind     Kind
	Filename string
	Size     int64
	Data     []byte
}

// Result describes what happened to one upload.
type Result struct {
	Type     Kind   `json:"type"`
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	URL      string `json:"url,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`

	internal bool
}

// Outcome aggregates per-image results.
type Outcome struct {
	Results []Result `json:"results"`
}

// Status is 200 when every image succeeded, 207 on partial success, 500 when
// nothing succeeded and an internal failure was involved, else 400.
func (o *Outcome) Status() int {
	ok, internal := 0, false
	for _, r := range o.Results {
		if r.Success {
			ok++
		}
		if r.internal {
			internal = true
		}
	}
	switch {
	case ok == len(o.Results):
		return http.StatusOK
	case ok > 0:
		return http.StatusMultiStatus
	case internal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxBytes
}

// CheckSize rejects an upload before it is read into memory.
func (s *Service) CheckSize(size int64) error {
	if size > s.maxBytes() {
		return fmt.Errorf("%w: limit is %s", ErrFileTooLarge, humanize.IBytes(uint64(s.maxBytes())))
	}
	return nil
}

// UploadImages processes each upload independently for the caller's organisation.
func (s *Service) UploadImages(ctx context.Context, userID uint, uploads []Upload) (*Outcome, error) {
	if len(uploads) == 0 {
		return nil, ErrNoImages
	}
	var org domain.OrgProfile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}

	out := &Outcome{}
	for _, up := range uploads {
		out.Results = append(out.Results, s.uploadOne(ctx, org.ID, up))
	}
	return out, nil
}

func (s *Service) uploadOne(ctx context.Context, orgID uint, up Upload) Result {
	res := Result{Type: up.Kind}
	fail := func(err error, code string, internal bool) Result {
		res.Error = err.Error()
		res.Code = code
		res.internal = internal
		return res
	}

	if !up.Kind.Valid() {
		return fail(ErrUnknownKind, "unknown_image_type", false)
	}
	if !allowedFile(up.Filename) {
		return fail(ErrUnsupportedType, "unsupported_file_type", false)
	}
	if err := s.CheckSize(int64(len(up.Data))); err != nil {
		return fail(err, "file_too_large", false)
	}
	data, size, err := processImage(up.Data, up.Kind)
	if err != nil {
		switch {
		case errors.Is(err, ErrImageTooSmall):
			return fail(err, "image_too_small", false)
		case errors.Is(err, ErrImageTooLarge):
			return fail(err, "image_too_large", false)
		case errors.Is(err, ErrInvalidImage):
			return fail(err, "invalid_image", false)
		default:
			log.Error().Err(err).Str("type", string(up.Kind)).Msg("image processing failed")
			return fail(errors.New("Failed to process image"), "image_processing_failed", true)
		}
	}

	name := fmt.Sprintf("%s/%s.jpg", up.Kind, uuid.NewString())
	err = s.Store.Put(ctx, name, data, "image/jpeg")
	metrics.ObserveProvider(metrics.ProviderStorage, err)
	if err != nil {
		log.Error().Err(err).Str("object", name).Msg("image upload failed")
		return fail(ErrStoreFailed, "storage_error", true)
	}

	var previous string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org domain.OrgProfile
		if err := tx.Select("id", up.Kind.column()).First(&org, orgID).Error; err != nil {
			return err
		}
		if up.Kind == KindLogo {
			previous = org.OrgLogoFilename
		} else {
			previous = org.OrgCoverPhotoFilename
		}
		return tx.Model(&domain.OrgProfile{}).Where("id = ?", orgID).Updates(map[string]interface{}{
			up.Kind.column(): name,
			"updated_at":     time.Now(),
		}).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("org_id", orgID).Str("object", name).Msg("saving image reference failed")
		if delErr := s.Store.Delete(ctx, name); delErr != nil {
			log.Warn().Err(delErr).Str("object", name).Msg("failed to clean up uploaded image after save error")
		}
		return fail(ErrSaveFailed, "persistence_error", true)
	}

	if previous != "" && previous != name {
		if err := s.Store.Delete(ctx, previous); err != nil {
			log.Warn().Err(err).Str("object", previous).Msg("failed to delete superseded image")
		}
	}

	res.Success = true
	res.Filename = name
	res.URL = s.Store.PublicURL(name)
	res.Width, res.Height = size.X, size.Y
	return res
}
