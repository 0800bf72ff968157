package media

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	mediasvc "ngo-connect-backend/internal/application/media"
	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/infrastructure/storage"
	"ngo-connect-backend/internal/middleware"
	"ngo-connect-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uploadEnvelope struct {
	Data  mediasvc.Outcome `json:"data"`
	Error struct {
		Code    string           `json:"code"`
		Details mediasvc.Outcome `json:"details"`
	} `json:"error"`
}

func setupMediaTest(t *testing.T) (*fiber.App, *Handlers, *gorm.DB, *domain.User) {
	db := testutil.NewDB(t)
	store := storage.NewMemory("http://localhost/media")
	h := &Handlers{Service: &mediasvc.Service{DB: db, Store: store}, Files: store}
	admin := testutil.CreateUser(t, db, "admin@example.com", true)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetUser(c, &middleware.SessionUser{UserID: admin.ID, Email: admin.Email, Role: "admin"})
		return c.Next()
	})
	app.Post("/profile/upload-images", h.UploadImages)
	app.Get("/media/*", h.Serve)
	return app, h, db, admin
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{G: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type part struct {
	field, filename string
	data            []byte
}

func multipartRequest(t *testing.T, parts ...part) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("note", "ignored"))
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func upload(t *testing.T, app *fiber.App, parts ...part) (int, uploadEnvelope) {
	t.Helper()
	body, ct := multipartRequest(t, parts...)
	req := httptest.NewRequest("POST", "/profile/upload-images", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var env uploadEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestUploadImages_StoresAndServesLogo(t *testing.T) {
	app, _, db, admin := setupMediaTest(t)
	testutil.CreateOrg(t, db, admin.ID, "Maji Safi")

	status, env := upload(t, app, part{"logo", "logo.png", pngOf(t, 640, 320)})
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, env.Data.Results, 1)
	res := env.Data.Results[0]
	assert.True(t, res.Success)
	assert.Equal(t, 400, res.Width)
	assert.Equal(t, 200, res.Height)
	require.True(t, strings.HasPrefix(res.URL, "http://localhost/media/logo/"))

	resp, err := app.Test(httptest.NewRequest("GET", strings.TrimPrefix(res.URL, "http://localhost"), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	resp, err = app.Test(httptest.NewRequest("GET", "/media/logo/missing.jpg", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUploadImages_PartialIs207(t *testing.T) {
	app, _, db, admin := setupMediaTest(t)
	testutil.CreateOrg(t, db, admin.ID, "Maji Safi")

	status, env := upload(t, app,
		part{"logo", "logo.png", pngOf(t, 120, 120)},
		part{"cover_photo", "cover.png", pngOf(t, 300, 200)},
	)
	assert.Equal(t, fiber.StatusMultiStatus, status)
	require.Len(t, env.Data.Results, 2)
	assert.True(t, env.Data.Results[0].Success)
	assert.Equal(t, "image_too_small", env.Data.Results[1].Code)
}

func TestUploadImages_AllInvalidIs400(t *testing.T) {
	app, _, db, admin := setupMediaTest(t)
	testutil.CreateOrg(t, db, admin.ID, "Maji Safi")

	status, env := upload(t, app, part{"logo", "logo.bmp", []byte("BM")})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_images", env.Error.Code)
	require.Len(t, env.Error.Details.Results, 1)
	assert.Equal(t, "unsupported_file_type", env.Error.Details.Results[0].Code)
}

func TestUploadImages_RequestErrors(t *testing.T) {
	app, h, db, admin := setupMediaTest(t)

	status, env := upload(t, app)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "no_images", env.Error.Code)

	status, env = upload(t, app, part{"logo", "logo.png", pngOf(t, 120, 120)})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "org_not_found", env.Error.Code)

	testutil.CreateOrg(t, db, admin.ID, "Maji Safi")
	h.Service.MaxBytes = 32
	status, env = upload(t, app, part{"logo", "logo.png", pngOf(t, 120, 120)})
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "file_too_large", env.Error.Code)
}
