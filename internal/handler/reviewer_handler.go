package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/craftcv/craftcv-api/internal/service"
	"github.com/craftcv/craftcv-api/internal/utils"
)

// ReviewerHandler serves reviewer progression stats and the leaderboard.
type ReviewerHandler struct {
	service service.LeaderboardService
	logger  zerolog.Logger
}

// NewReviewerHandler builds a reviewer handler instance.
func NewReviewerHandler(service service.LeaderboardService, logger zerolog.Logger) *ReviewerHandler {
	return &ReviewerHandler{
		service: service,
		logger:  logger.With().Str("component", "reviewer_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ReviewerHandler) Register(router fiber.Router) {
	router.Get("/leaderboard", h.leaderboard)
	router.Get("/:reviewerId/stats", h.stats)
}

func (h *ReviewerHandler) leaderboard(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.Leaderboard(c.Context(), limit)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", entries)
}

func (h *ReviewerHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.ReviewerStats(c.Context(), c.Params("reviewerId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "reviewer stats retrieved", stats)
}

func (h *ReviewerHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "storage unavailable, retry later")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
