package translation

import "errors"

var (
	ErrMissingFields       = errors.New("Missing required fields: text and targetLanguage")
	ErrUnsupportedLanguage = errors.New("Unsupported language. Only English (en) and Kiswahili (sw) are supported")
	ErrTooManyTexts        = errors.New("Too many texts in one batch")
)
