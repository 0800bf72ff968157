package media

import "errors"

var (
	ErrNoImages        = errors.New("No images provided")
	ErrUnknownKind     = errors.New("Unknown image type")
	ErrUnsupportedType = errors.New("File type not allowed; use png, jpg or jpeg")
	ErrFileTooLarge    = errors.New("File too large")
	ErrInvalidImage    = errors.New("File is not a readable image")
	ErrImageTooSmall   = errors.New("Image is too small")
	ErrImageTooLarge   = errors.New("Image dimensions are too large")
	ErrOrgNotFound     = errors.New("Organisation profile not found")
	ErrStoreFailed     = errors.New("Failed to store image")
	ErrSaveFailed      = errors.New("Failed to save image reference")
)
