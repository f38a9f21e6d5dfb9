package handler

import (
	"github.com/gofiber/fiber/v2"

	"online-voting/internal/domain"
	"online-voting/internal/middleware"
	"online-voting/internal/service/voting"
)

type VotingHandler struct {
	votingService voting.Service
}

func NewVotingHandler(votingService voting.Service) *VotingHandler {
	return &VotingHandler{votingService: votingService}
}

func (h *VotingHandler) ListCandidates(c *fiber.Ctx) error {
	loc, err := locationFromQuery(c)
	if err != nil {
		return err
	}

	candidates, err := h.votingService.ListCandidates(c.UserContext(), loc)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": candidates})
}

func (h *VotingHandler) CastVote(c *fiber.Ctx) error {
	var input domain.CastVoteInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	receipt, err := h.votingService.CastVote(c.UserContext(), operatorID(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"receipt": receipt,
		"message": "Vote recorded successfully",
	})
}
