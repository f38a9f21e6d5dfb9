package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"online-voting/internal/domain"
	"online-voting/internal/middleware"
	"online-voting/internal/service/faceauth"
)

const maxFrameSize = 2 * 1024 * 1024

type FaceAuthHandler struct {
	sessions *faceauth.Sessions
}

func NewFaceAuthHandler(sessions *faceauth.Sessions) *FaceAuthHandler {
	return &FaceAuthHandler{sessions: sessions}
}

func (h *FaceAuthHandler) Start(c *fiber.Ctx) error {
	var input struct {
		Location domain.LocationPath `json:"location"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	status, err := h.sessions.Start(operatorID(c), input.Location)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(status)
}

// PushFrame accepts one camera frame, either as a multipart "frame" file or
// as a JSON body {"image": "<base64 or data URL>"}.
func (h *FaceAuthHandler) PushFrame(c *fiber.Ctx) error {
	frame := faceauth.Frame{CapturedAt: time.Now()}

	if file, err := c.FormFile("frame"); err == nil {
		data, contentType, err := readUpload(file, maxFrameSize)
		if err != nil {
			return err
		}
		frame.Data, frame.ContentType = data, contentType
	} else {
		var input struct {
			Image string `json:"image"`
		}
		if err := c.BodyParser(&input); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
		data, contentType, err := domain.DecodeImage(input.Image)
		if err != nil {
			return err
		}
		frame.Data, frame.ContentType = data, contentType
	}

	status, err := h.sessions.PushFrame(operatorID(c), c.Params("id"), frame)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(status)
}

// Status reports the current state. A finished attempt carries either the
// matched voter or the error it ended with.
func (h *FaceAuthHandler) Status(c *fiber.Ctx) error {
	status, err := h.sessions.Status(operatorID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(status)
}

func (h *FaceAuthHandler) Cancel(c *fiber.Ctx) error {
	status, err := h.sessions.Cancel(operatorID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(status)
}

func operatorID(c *fiber.Ctx) string {
	return middleware.GetCurrentUserID(c).String()
}
