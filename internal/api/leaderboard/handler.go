// Package leaderboard provides the REST API handler for leaderboard queries.
package leaderboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/api/respond"
	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/internal/service/leaderboard"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// LeaderboardService interface for leaderboard operations.
type LeaderboardService interface {
	Page(ctx context.Context, challengeID string, limit, offset int) ([]leaderboard.Entry, int64, error)
	Around(ctx context.Context, challengeID, callsign string, window int) ([]leaderboard.Entry, error)
	Total(ctx context.Context, challengeID string) (int64, error)
}

// Handler handles leaderboard API requests.
type Handler struct {
	service LeaderboardService
	log     *logger.Logger
}

// NewHandler creates a new leaderboard handler.
func NewHandler(service *leaderboard.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new leaderboard handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service LeaderboardService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Get returns the ranked leaderboard for a challenge. When around is
// supplied, pagination params are ignored and a window of entries centered
// on that callsign is returned instead, with userPosition pointing at it.
// GET /api/v1/challenges/:id/leaderboard?limit=&offset=&around=.
func (h *Handler) Get(c *gin.Context) {
	challengeID := c.Param("id")

	if around := c.Query("around"); around != "" {
		h.aroundResponse(c, challengeID, around)
		return
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}

	entries, total, err := h.service.Page(c.Request.Context(), challengeID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Str("challenge_id", challengeID).Msg("Failed to query leaderboard")
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"total":       total,
		"lastUpdated": time.Now().UTC(),
	})
}

func (h *Handler) aroundResponse(c *gin.Context, challengeID, callsign string) {
	entries, err := h.service.Around(c.Request.Context(), challengeID, callsign, leaderboard.DefaultWindow)
	if err != nil {
		h.log.Error().Err(err).Str("challenge_id", challengeID).Msg("Failed to query leaderboard window")
		respond.Error(c, err)
		return
	}

	total, err := h.service.Total(c.Request.Context(), challengeID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var userPosition *leaderboard.Entry
	normalized := repository.NormalizeCallsign(callsign)
	for i := range entries {
		if entries[i].Callsign == normalized {
			userPosition = &entries[i]
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":  entries,
		"total":        total,
		"userPosition": userPosition,
		"lastUpdated":  time.Now().UTC(),
	})
}

// parsePagination extracts and validates limit/offset query parameters.
func parsePagination(c *gin.Context) (int, int, error) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			return 0, 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
		}
		limit = parsed
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter: %s", offsetStr)
		}
		offset = parsed
	}
	return limit, offset, nil
}
