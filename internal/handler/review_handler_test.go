package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/craftcv/craftcv-api/internal/config"
	"github.com/craftcv/craftcv-api/internal/dto"
	"github.com/craftcv/craftcv-api/internal/handler"
	"github.com/craftcv/craftcv-api/internal/models"
	"github.com/craftcv/craftcv-api/internal/repository"
	"github.com/craftcv/craftcv-api/internal/router"
	"github.com/craftcv/craftcv-api/internal/service"
)

func setupReviewApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Resume{}, &models.Review{}, &models.ReviewerProgression{}, &models.ReviewerBadge{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	progressionRepo := repository.NewProgressionRepository(db)
	reviewService := service.NewReviewService(service.ReviewServiceParams{
		Reviews:      repository.NewReviewRepository(db),
		Progressions: progressionRepo,
		Resumes:      repository.NewResumeDirectory(db),
		Validator:    validate,
		XPAward:      10,
		Logger:       logger,
	})
	leaderboardService := service.NewLeaderboardService(progressionRepo, logger)

	app := fiber.New()
	reviewHandler := handler.NewReviewHandler(reviewService, validate, logger)
	reviewerHandler := handler.NewReviewerHandler(leaderboardService, logger)

	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret", SubmitRateLimit: 1000}, router.Dependencies{
		ReviewHandler:   reviewHandler,
		ReviewerHandler: reviewerHandler,
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", "test-user")
			return c.Next()
		},
	})

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, target string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestReviewHandlerSubmitAndDuplicate(t *testing.T) {
	app, db := setupReviewApp(t)

	owner := uuid.NewString()
	reviewer := uuid.NewString()
	resume := models.Resume{ID: uuid.NewString(), UserID: owner, Title: "Data Analyst"}
	require.NoError(t, db.Create(&resume).Error)

	payload := map[string]interface{}{
		"reviewer_id":      reviewer,
		"reviewed_user_id": owner,
		"resume_id":        resume.ID,
		"score":            4,
		"feedback":         "Strong experience section, but the summary needs quantified impact.",
		"flags":            []string{"missing metrics"},
	}

	resp := postJSON(t, app, "/api/v2/reviews", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var submitBody struct {
		Success bool                     `json:"success"`
		Data    dto.SubmitReviewResponse `json:"data"`
		Message string                   `json:"message"`
	}
	decodeResponse(t, resp, &submitBody)
	require.True(t, submitBody.Success)
	require.Equal(t, "review submitted", submitBody.Message)
	require.Equal(t, 10, submitBody.Data.XPGained)
	require.Equal(t, 10, submitBody.Data.TotalXP)
	require.Equal(t, []string{"First Review"}, submitBody.Data.NewBadges)

	resp = postJSON(t, app, "/api/v2/reviews", payload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var conflictBody struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &conflictBody)
	require.False(t, conflictBody.Success)
}

func TestReviewHandlerRejectsSelfReview(t *testing.T) {
	app, db := setupReviewApp(t)

	owner := uuid.NewString()
	resume := models.Resume{ID: uuid.NewString(), UserID: owner}
	require.NoError(t, db.Create(&resume).Error)

	payload := map[string]interface{}{
		"reviewer_id":      owner,
		"reviewed_user_id": owner,
		"resume_id":        resume.ID,
		"score":            3,
		"feedback":         "trying to review my own resume here",
	}

	resp := postJSON(t, app, "/api/v2/reviews", payload)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReviewHandlerResumeNotFound(t *testing.T) {
	app, _ := setupReviewApp(t)

	payload := map[string]interface{}{
		"reviewer_id":      uuid.NewString(),
		"reviewed_user_id": uuid.NewString(),
		"resume_id":        uuid.NewString(),
		"score":            3,
		"feedback":         "reviewing a resume that does not exist",
	}

	resp := postJSON(t, app, "/api/v2/reviews", payload)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReviewHandlerResumeReviewsAndStats(t *testing.T) {
	app, db := setupReviewApp(t)

	owner := uuid.NewString()
	reviewer := uuid.NewString()
	resume := models.Resume{ID: uuid.NewString(), UserID: owner}
	require.NoError(t, db.Create(&resume).Error)

	payload := map[string]interface{}{
		"reviewer_id":      reviewer,
		"reviewed_user_id": owner,
		"resume_id":        resume.ID,
		"score":            5,
		"feedback":         "Excellent structure and strong action verbs throughout.",
	}
	resp := postJSON(t, app, "/api/v2/reviews", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/reviews/resume/"+resume.ID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reviewsBody struct {
		Success bool                      `json:"success"`
		Data    dto.ResumeReviewsResponse `json:"data"`
	}
	decodeResponse(t, resp, &reviewsBody)
	require.Len(t, reviewsBody.Data.Reviews, 1)
	require.Equal(t, 1, reviewsBody.Data.Stats.TotalReviews)
	require.InDelta(t, 5.0, reviewsBody.Data.Stats.AverageScore, 0.0001)

	req = httptest.NewRequest(http.MethodGet, "/api/v2/reviewers/"+reviewer+"/stats", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var statsBody struct {
		Success bool                      `json:"success"`
		Data    dto.ReviewerStatsResponse `json:"data"`
	}
	decodeResponse(t, resp, &statsBody)
	require.Equal(t, 10, statsBody.Data.TotalXP)
	require.Equal(t, 1, statsBody.Data.TotalReviews)
	require.Len(t, statsBody.Data.Badges, 1)
}

func TestReviewHandlerLeaderboard(t *testing.T) {
	app, db := setupReviewApp(t)

	first := uuid.NewString()
	second := uuid.NewString()
	require.NoError(t, db.Create(&models.ReviewerProgression{ReviewerID: first, TotalXP: 100, TotalReviews: 50, Level: 6, Reputation: 100}).Error)
	require.NoError(t, db.Create(&models.ReviewerProgression{ReviewerID: second, TotalXP: 100, TotalReviews: 30, Level: 6, Reputation: 100}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/reviewers/leaderboard?limit=10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                   `json:"success"`
		Data    []dto.LeaderboardEntry `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data, 2)
	require.Equal(t, first, body.Data[0].ReviewerID)
	require.Equal(t, 1, body.Data[0].Rank)
	require.Equal(t, second, body.Data[1].ReviewerID)
}

func TestReviewerStatsUnknownReviewerReturnsZeroState(t *testing.T) {
	app, _ := setupReviewApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/reviewers/"+uuid.NewString()+"/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                      `json:"success"`
		Data    dto.ReviewerStatsResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Zero(t, body.Data.TotalXP)
	require.Zero(t, body.Data.TotalReviews)
	require.Equal(t, 1, body.Data.Level)
	require.Empty(t, body.Data.Badges)
}
