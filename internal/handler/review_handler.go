package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/craftcv/craftcv-api/internal/dto"
	"github.com/craftcv/craftcv-api/internal/service"
	"github.com/craftcv/craftcv-api/internal/utils"
)

// ReviewHandler manages review submission and review listing endpoints.
type ReviewHandler struct {
	service   service.ReviewService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewReviewHandler builds a review handler instance.
func NewReviewHandler(service service.ReviewService, validator *validator.Validate, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ReviewHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("/resume/:resumeId", h.resumeReviews)
	router.Get("/reviewer/:reviewerId", h.reviewerReviews)
}

func (h *ReviewHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Submit(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "review submitted", result)
}

func (h *ReviewHandler) resumeReviews(c *fiber.Ctx) error {
	result, err := h.service.ResumeReviews(c.Context(), c.Params("resumeId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resume reviews retrieved", result)
}

func (h *ReviewHandler) reviewerReviews(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	result, err := h.service.ReviewerReviews(c.Context(), c.Params("reviewerId"), page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "reviewer reviews retrieved", result)
}

func (h *ReviewHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrSelfReview),
		errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrInvalidFeedback):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrResumeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resume not found")
	case errors.Is(err, service.ErrDuplicateReview):
		return utils.SendError(c, fiber.StatusConflict, "resume already reviewed by this reviewer")
	case errors.Is(err, service.ErrStorageUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "storage unavailable, retry later")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
