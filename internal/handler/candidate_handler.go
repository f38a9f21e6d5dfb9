package handler

import (
	"github.com/gofiber/fiber/v2"

	"online-voting/internal/domain"
	"online-voting/internal/middleware"
	"online-voting/internal/service/candidate"
)

type CandidateHandler struct {
	candidateService candidate.Service
}

func NewCandidateHandler(candidateService candidate.Service) *CandidateHandler {
	return &CandidateHandler{candidateService: candidateService}
}

// Register takes a multipart form: the text fields, the four location
// levels and a symbol_image file.
func (h *CandidateHandler) Register(c *fiber.Ctx) error {
	var input domain.CreateCandidateInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	input.Location = locationFromForm(c)

	if file, err := c.FormFile("symbol_image"); err == nil {
		if file.Size > domain.MaxSymbolImageSize {
			return domain.NewValidationError("symbol_image", "must be 5MB or smaller")
		}
		data, contentType, err := readUpload(file, domain.MaxSymbolImageSize)
		if err != nil {
			return err
		}
		input.SymbolImage = data
		input.SymbolImageType = contentType
	}

	created, err := h.candidateService.Register(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"candidate":              created,
		"message":                "Candidate registered successfully",
		"modal_dismiss_after_ms": candidate.ConfirmationDismissAfter.Milliseconds(),
	})
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	loc, err := locationFromQuery(c)
	if err != nil {
		return err
	}

	candidates, err := h.candidateService.List(c.UserContext(), loc)
	if err != nil {
		return err
	}

	if middleware.IsAdmin(c) {
		return c.JSON(fiber.Map{"data": candidates})
	}
	public := make([]domain.PublicCandidate, len(candidates))
	for i := range candidates {
		public[i] = candidates[i].Public()
	}
	return c.JSON(fiber.Map{"data": public})
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	loc, err := locationFromQuery(c)
	if err != nil {
		return err
	}

	found, err := h.candidateService.Get(c.UserContext(), loc, c.Params("id"))
	if err != nil {
		return err
	}

	if middleware.IsAdmin(c) {
		return c.JSON(found)
	}
	return c.JSON(found.Public())
}
