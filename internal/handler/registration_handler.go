package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"online-voting/internal/domain"
	"online-voting/internal/middleware"
	"online-voting/internal/service/registration"
)

const (
	maxIDImageSize = 10 * 1024 * 1024
	extractTimeout = 2 * time.Minute
)

type RegistrationHandler struct {
	registrationService registration.Service
}

func NewRegistrationHandler(registrationService registration.Service) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Extract reads voter fields off an uploaded ID card. With ?stream=true the
// response is newline-delimited JSON: {"progress": r} lines while the text
// is recognised, then one {"result": ...} or {"error": ...} line.
func (h *RegistrationHandler) Extract(c *fiber.Ctx) error {
	file, err := c.FormFile("id_image")
	if err != nil {
		return middleware.BadRequest("id_image file is required")
	}
	image, contentType, err := readUpload(file, maxIDImageSize)
	if err != nil {
		return err
	}

	if !c.QueryBool("stream") {
		result, err := h.registrationService.ExtractFromID(c.UserContext(), image, contentType, nil)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}

	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
		defer cancel()

		enc := json.NewEncoder(w)
		progress := func(ratio float64) {
			_ = enc.Encode(fiber.Map{"progress": ratio})
			_ = w.Flush()
		}

		result, err := h.registrationService.ExtractFromID(ctx, image, contentType, progress)
		if err != nil {
			_, resp, _ := middleware.ResolveError(err)
			_ = enc.Encode(fiber.Map{"error": resp})
		} else {
			_ = enc.Encode(fiber.Map{"result": result})
		}
		_ = w.Flush()
	})
	return nil
}

// Validate checks the draft through the given stage so the client can move
// the wizard forward.
func (h *RegistrationHandler) Validate(c *fiber.Ctx) error {
	stage, err := domain.ParseRegistrationStage(c.Query("stage"))
	if err != nil {
		return err
	}

	var draft domain.RegistrationDraft
	if err := c.BodyParser(&draft); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.registrationService.Validate(stage, &draft); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"stage": stage.String(),
		"valid": true,
	})
}

func (h *RegistrationHandler) Submit(c *fiber.Ctx) error {
	var draft domain.RegistrationDraft
	if err := c.BodyParser(&draft); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	voter, err := h.registrationService.Submit(c.UserContext(), middleware.GetCurrentUserID(c), &draft)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"voter":   voter,
		"message": "Voter registered successfully",
	})
}

func (h *RegistrationHandler) ListVoters(c *fiber.Ctx) error {
	loc, err := locationFromQuery(c)
	if err != nil {
		return err
	}

	voters, err := h.registrationService.ListVoters(c.UserContext(), loc)
	if err != nil {
		return err
	}
	for i := range voters {
		voters[i].FaceImage = ""
	}

	return c.JSON(domain.Paginate(voters, getPaginationParams(c)))
}
