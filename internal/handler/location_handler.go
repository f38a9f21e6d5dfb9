package handler

import (
	"github.com/gofiber/fiber/v2"

	"online-voting/internal/location"
)

type LocationHandler struct {
	directory *location.Directory
}

func NewLocationHandler(directory *location.Directory) *LocationHandler {
	return &LocationHandler{directory: directory}
}

func (h *LocationHandler) States(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.directory.States()})
}

func (h *LocationHandler) Districts(c *fiber.Ctx) error {
	districts, err := h.directory.Districts(c.Params("state"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": districts})
}

func (h *LocationHandler) SubDistricts(c *fiber.Ctx) error {
	subDistricts, err := h.directory.SubDistricts(c.Params("state"), c.Params("district"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subDistricts})
}

func (h *LocationHandler) Villages(c *fiber.Ctx) error {
	villages, err := h.directory.Villages(c.Params("state"), c.Params("district"), c.Params("subDistrict"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": villages})
}
