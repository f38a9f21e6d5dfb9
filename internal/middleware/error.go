package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"online-voting/internal/domain"
)

type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

type errorMapping struct {
	err       error
	status    int
	code      string
	retryable bool
}

var domainErrors = []errorMapping{
	{domain.ErrExtractionFailed, fiber.StatusUnprocessableEntity, "EXTRACTION_FAILED", true},
	{domain.ErrNoFaceData, fiber.StatusUnprocessableEntity, "NO_FACE_DATA", false},
	{domain.ErrCandidateVanished, fiber.StatusConflict, "CANDIDATE_VANISHED", false},
	{domain.ErrAlreadyVoted, fiber.StatusConflict, "ALREADY_VOTED", false},
	{domain.ErrVoterExists, fiber.StatusConflict, "VOTER_EXISTS", false},
	{domain.ErrEmailExists, fiber.StatusConflict, "CONFLICT", false},
	{domain.ErrOperationInProgress, fiber.StatusConflict, "OPERATION_IN_PROGRESS", true},
	{domain.ErrSessionCancelled, fiber.StatusConflict, "SESSION_CANCELLED", false},
	{domain.ErrAuthTimeout, fiber.StatusRequestTimeout, "AUTH_TIMEOUT", false},
	{domain.ErrNoRegisteredVoters, fiber.StatusNotFound, "NO_REGISTERED_VOTERS", false},
	{domain.ErrSessionNotFound, fiber.StatusNotFound, "NOT_FOUND", false},
	{domain.ErrUnknownDistrict, fiber.StatusNotFound, "NOT_FOUND", false},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", false},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "UNAUTHORIZED", false},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "UNAUTHORIZED", false},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED", false},
	{domain.ErrAdminSignupForbidden, fiber.StatusForbidden, "FORBIDDEN", false},
	{domain.ErrFederatedDisabled, fiber.StatusNotImplemented, "FEDERATED_DISABLED", false},
	{domain.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", true},
	{domain.ErrCollaboratorFailed, fiber.StatusBadGateway, "COLLABORATOR_FAILED", true},
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code, resp, known := ResolveError(err)
	if !known || code >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"trace_id", resp.TraceID,
			"error", err,
		)
	}
	return c.Status(code).JSON(resp)
}

// ResolveError maps err to its HTTP status and response body. known is false
// for errors that are not part of the API contract.
func ResolveError(err error) (int, ErrorResponse, bool) {
	resp := ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		TraceID: uuid.New().String()[:8],
	}

	var fe *fiber.Error
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &fe):
		resp.Message = fe.Message
		switch fe.Code {
		case fiber.StatusBadRequest:
			resp.Code = "BAD_REQUEST"
		case fiber.StatusUnauthorized:
			resp.Code = "UNAUTHORIZED"
		case fiber.StatusForbidden:
			resp.Code = "FORBIDDEN"
		case fiber.StatusNotFound:
			resp.Code = "NOT_FOUND"
		case fiber.StatusConflict:
			resp.Code = "CONFLICT"
		case fiber.StatusRequestEntityTooLarge:
			resp.Code = "PAYLOAD_TOO_LARGE"
		case fiber.StatusUnprocessableEntity:
			resp.Code = "VALIDATION_ERROR"
		case fiber.StatusInternalServerError:
			resp.Code = "INTERNAL_ERROR"
		default:
			resp.Code = "ERROR"
		}
		return fe.Code, resp, true
	case errors.As(err, &ve):
		resp.Code = "VALIDATION_ERROR"
		resp.Message = ve.Message
		resp.Field = ve.Field
		return fiber.StatusUnprocessableEntity, resp, true
	}

	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			resp.Message = m.err.Error()
			resp.Retryable = m.retryable
			return m.status, resp, true
		}
	}
	return fiber.StatusInternalServerError, resp, false
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}
