package handler

import (
	"github.com/gofiber/fiber/v2"

	"online-voting/internal/service/results"
)

type ResultsHandler struct {
	resultsService results.Service
}

func NewResultsHandler(resultsService results.Service) *ResultsHandler {
	return &ResultsHandler{resultsService: resultsService}
}

// Get returns the party-wise totals, or one district's standings when
// ?district= names a district key.
func (h *ResultsHandler) Get(c *fiber.Ctx) error {
	view, err := h.resultsService.View(c.UserContext(), c.Query("district", results.AllDistricts))
	if err != nil {
		return err
	}
	return c.JSON(view)
}
