package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/dto"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/middleware"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"go.uber.org/zap"
)

const msgServerError = "A server error occurred."

// respondError writes err as an envelope. Unexpected errors are logged and
// hidden behind a generic 500.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var (
		verr   *services.ValidationError
		access *services.AccessError
		ferr   *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.FieldFailure(verr.Fields))
	case errors.As(err, &access):
		return c.Status(accessStatus(access.Kind)).JSON(dto.Failure(access.Message))
	case errors.Is(err, services.ErrTemplateInUse):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Failure("Template is used by existing applications."))
	case errors.As(err, &ferr) && ferr.Code < fiber.StatusInternalServerError:
		return c.Status(ferr.Code).JSON(dto.Failure(ferr.Message))
	}

	reqID, _ := c.Locals(middleware.CtxRequestID).(string)
	log.Error("request failed",
		zap.String("request_id", reqID),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Failure(msgServerError))
}

func accessStatus(kind error) int {
	switch kind {
	case services.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case services.ErrForbidden:
		return fiber.StatusForbidden
	}
	return fiber.StatusNotFound
}

// ErrorHandler renders errors that escape the handlers, like unknown routes
// or oversized bodies, in the envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return respondError(c, log, err)
	}
}

// bind parses the body into req and checks its struct tags.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		errs := models.FieldErrors{}
		errs.Add(models.NonFieldErrors, "Malformed request body.")
		return &services.ValidationError{Fields: errs}
	}
	if errs := dto.Validate(req); !errs.Empty() {
		return &services.ValidationError{Fields: errs}
	}
	return nil
}

func fieldErrors(errs models.FieldErrors) error {
	if errs.Empty() {
		return nil
	}
	return &services.ValidationError{Fields: errs}
}

// pathID parses the :id route parameter. A malformed id cannot name an
// existing resource, so it is a 404.
func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, &services.AccessError{Kind: services.ErrNotFound, Message: "Not found."}
	}
	return id, nil
}

func queryPage(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.Success(data))
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Success(data))
}
