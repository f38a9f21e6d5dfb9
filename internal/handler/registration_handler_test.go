package handler_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"online-voting/internal/domain"
	"online-voting/internal/handler"
	"online-voting/internal/middleware"
	"online-voting/internal/mocks"
	"online-voting/internal/service/ocr"
	"online-voting/internal/service/registration"
)

const voterCardText = "ELECTION COMMISSION OF INDIA\n" +
	"Elector's Name: Ramesh Patil\n" +
	"Father's Name: Suresh Patil\n" +
	"EPIC No: ABC1234567\n" +
	"Sex: M\n" +
	"Date of Birth: 12/04/90\n"

func newRegistrationApp(t *testing.T, engine *mocks.OCREngine) *fiber.App {
	t.Helper()
	svc := registration.NewService(engine, nil, nil, loadLocations(t), nil, nil, nil, discardLogger())
	h := handler.NewRegistrationHandler(svc)
	app := newApp(operatorA, domain.RoleAdmin)
	app.Post("/registration/extract", h.Extract)
	app.Post("/registration/validate", h.Validate)
	return app
}

func TestRegistrationHandler_Extract(t *testing.T) {
	engine := new(mocks.OCREngine)
	app := newRegistrationApp(t, engine)

	engine.On("Recognize", mock.Anything, pngHeader, "image/png", mock.Anything).
		Return(voterCardText, nil).Once()

	resp, body := do(t, app, multipartRequest(t, "/registration/extract", nil, "id_image", pngHeader))

	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	got := decode[registration.Extraction](t, body)
	assert.Equal(t, ocr.Fields{
		Name:        "Ramesh Patil",
		FatherName:  "Suresh Patil",
		VoterNumber: "ABC1234567",
		DateOfBirth: "1990-04-12",
		Gender:      "Male",
	}, got.Fields)
	engine.AssertExpectations(t)
}

func TestRegistrationHandler_Extract_NothingFound(t *testing.T) {
	engine := new(mocks.OCREngine)
	app := newRegistrationApp(t, engine)

	engine.On("Recognize", mock.Anything, pngHeader, "image/png", mock.Anything).
		Return("smudged", nil).Once()

	resp, body := do(t, app, multipartRequest(t, "/registration/extract", nil, "id_image", pngHeader))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	got := decode[middleware.ErrorResponse](t, body)
	assert.Equal(t, "EXTRACTION_FAILED", got.Code)
	assert.True(t, got.Retryable)
}

func TestRegistrationHandler_Extract_MissingFile(t *testing.T) {
	app := newRegistrationApp(t, new(mocks.OCREngine))

	resp, _ := do(t, app, multipartRequest(t, "/registration/extract", map[string]string{"note": "x"}, "", nil))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegistrationHandler_Extract_Stream(t *testing.T) {
	engine := new(mocks.OCREngine)
	app := newRegistrationApp(t, engine)

	engine.On("Recognize", mock.Anything, pngHeader, "image/png", mock.Anything).
		Run(func(args mock.Arguments) {
			progress := args.Get(3).(ocr.ProgressFunc)
			progress(0.5)
			progress(1)
		}).
		Return(voterCardText, nil).Once()

	resp, body := do(t, app, multipartRequest(t, "/registration/extract?stream=true", nil, "id_image", pngHeader))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get(fiber.HeaderContentType))

	var lines []map[string]json.RawMessage
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		var line map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 3)
	assert.JSONEq(t, "0.5", string(lines[0]["progress"]))
	assert.JSONEq(t, "1", string(lines[1]["progress"]))
	assert.Contains(t, string(lines[2]["result"]), "ABC1234567")
}

func TestRegistrationHandler_Validate(t *testing.T) {
	app := newRegistrationApp(t, new(mocks.OCREngine))

	draft := domain.RegistrationDraft{
		IDImage:       "data:image/png;base64,AAAA",
		IDImageSource: domain.ImageSourceUpload,
		VoterName:     "Ramesh Patil",
		FatherName:    "Suresh Patil",
		VoterNumber:   "ABC1234567",
		DateOfBirth:   "1990-04-12",
		Gender:        "Male",
	}

	t.Run("personal info complete", func(t *testing.T) {
		resp, body := do(t, app, jsonRequest(t, http.MethodPost, "/registration/validate?stage=personal_info", draft))

		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.JSONEq(t, `{"stage":"personal_info","valid":true}`, string(body))
	})

	t.Run("address missing", func(t *testing.T) {
		resp, body := do(t, app, jsonRequest(t, http.MethodPost, "/registration/validate?stage=address", draft))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "state", decode[middleware.ErrorResponse](t, body).Field)
	})

	t.Run("unknown stage", func(t *testing.T) {
		resp, body := do(t, app, jsonRequest(t, http.MethodPost, "/registration/validate?stage=review", draft))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "stage", decode[middleware.ErrorResponse](t, body).Field)
	})
}
