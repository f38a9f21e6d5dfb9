package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"online-voting/internal/domain"
	"online-voting/internal/location"
	"online-voting/internal/middleware"
)

var (
	operatorA = uuid.MustParse("9f1c7a52-2d4e-4b8f-a1c3-000000000001")
	wagholi   = domain.LocationPath{State: "MH", District: "Pune", SubDistrict: "Haveli", Village: "Wagholi"}
)

const wagholiQuery = "state=MH&district=Pune&sub_district=Haveli&village=Wagholi"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadLocations(t *testing.T) *location.Directory {
	t.Helper()
	dir, err := location.Load("")
	require.NoError(t, err)
	return dir
}

// newApp builds an app whose requests are already authenticated as userID
// with role.
func newApp(userID uuid.UUID, role domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		UnescapePath: true,
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDContextKey, userID)
		c.Locals(middleware.UserContextKey, &domain.User{ID: userID, Email: "operator@example.com", FirstName: "Asha"})
		c.Locals(middleware.RoleContextKey, role)
		return c.Next()
	})
	return app
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileField string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, "upload.bin")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}
