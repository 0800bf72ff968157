package translate

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"ngo-connect-backend/internal/pkg/retry"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"
)

// Google calls the Cloud Translation v2 REST API.
type Google struct {
	Service *translatev2.Service
	Timeout time.Duration
	Retry   retry.Policy
}

// NewGoogle authenticates with an API key when given, then a service-account
// file, then application default credentials.
func NewGoogle(ctx context.Context, apiKey, credentialsFile string) (*Google, error) {
	var opts []option.ClientOption
	switch {
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := translatev2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("translate client: %w", err)
	}
	return &Google{Service: svc, Timeout: 15 * time.Second, Retry: retry.DefaultPolicy}, nil
}

func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	var out string
	err := retry.Do(ctx, g.Retry, func(ctx context.Context) error {
		cctx, cancel := context.WithTimeout(ctx, g.Timeout)
		defer cancel()
		resp, err := g.Service.Translations.List([]string{text}, target).
			Source(source).
			Format("text").
			Context(cctx).
			Do()
		if err != nil {
			return statusError(err)
		}
		if len(resp.Translations) == 0 {
			return errors.New("translate: empty response")
		}
		out = html.UnescapeString(resp.Translations[0].TranslatedText)
		return nil
	})
	return out, err
}

// statusError lifts a googleapi error into retry.StatusError so that only
// 429 and 5xx are retried.
func statusError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("translate: %w", &retry.StatusError{StatusCode: gerr.Code, Body: gerr.Message})
	}
	return err
}
