package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"online-voting/internal/domain"
	"online-voting/internal/middleware"
	"online-voting/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Location     *LocationHandler
	Registration *RegistrationHandler
	Candidate    *CandidateHandler
	FaceAuth     *FaceAuthHandler
	Voting       *VotingHandler
	Results      *ResultsHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Location:     NewLocationHandler(services.Locations),
		Registration: NewRegistrationHandler(services.Registration),
		Candidate:    NewCandidateHandler(services.Candidate),
		FaceAuth:     NewFaceAuthHandler(services.FaceAuth),
		Voting:       NewVotingHandler(services.Voting),
		Results:      NewResultsHandler(services.Results),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func locationFromQuery(c *fiber.Ctx) (domain.LocationPath, error) {
	var loc domain.LocationPath
	if err := c.QueryParser(&loc); err != nil {
		return loc, middleware.BadRequest("Invalid location query")
	}
	return loc, loc.Validate()
}

func locationFromForm(c *fiber.Ctx) domain.LocationPath {
	return domain.LocationPath{
		State:       c.FormValue("state"),
		District:    c.FormValue("district"),
		SubDistrict: c.FormValue("sub_district"),
		Village:     c.FormValue("village"),
	}
}

// readUpload reads a multipart file field into memory. The content type is
// sniffed when the client did not send one.
func readUpload(file *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if file.Size > maxSize {
		return nil, "", middleware.NewError(fiber.StatusRequestEntityTooLarge, "File is too large")
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", middleware.BadRequest("Failed to read file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, "", middleware.BadRequest("Failed to read file")
	}
	if int64(len(data)) > maxSize {
		return nil, "", middleware.NewError(fiber.StatusRequestEntityTooLarge, "File is too large")
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
