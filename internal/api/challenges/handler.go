// Package challenges provides REST API handlers for the challenge catalog.
package challenges

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/api/respond"
	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/internal/service/challenges"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ChallengeService interface for catalog operations.
type ChallengeService interface {
	List(ctx context.Context, filter repository.ChallengeFilter) ([]models.ChallengeListItem, error)
	Get(ctx context.Context, id string) (*models.Challenge, error)
	Create(ctx context.Context, req challenges.CreateRequest) (*models.Challenge, error)
	Update(ctx context.Context, id string, req challenges.UpdateRequest) (*models.Challenge, error)
	Delete(ctx context.Context, id string) error
}

// Handler handles challenge catalog API requests.
type Handler struct {
	service ChallengeService
	log     *logger.Logger
}

// NewHandler creates a new challenge handler.
func NewHandler(service *challenges.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new challenge handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service ChallengeService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// List returns the challenge catalog.
// GET /api/v1/challenges?category=&type=&active=&limit=&offset=.
func (h *Handler) List(c *gin.Context) {
	filter := repository.ChallengeFilter{
		Category:      c.Query("category"),
		ChallengeType: c.Query("type"),
	}

	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			respond.Error(c, apperr.Validation(fmt.Sprintf("invalid active parameter: %s", activeStr)))
			return
		}
		filter.Active = &active
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}
	filter.Limit = limit
	filter.Offset = offset

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list challenges")
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges":   items,
		"total":        len(items),
		"generated_at": time.Now().UTC(),
	})
}

// Get returns one challenge with its full configuration.
// GET /api/v1/challenges/:id.
func (h *Handler) Get(c *gin.Context) {
	challenge, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenge":    challenge,
		"generated_at": time.Now().UTC(),
	})
}

// Create creates a new challenge. Admin only.
// POST /api/v1/challenges.
func (h *Handler) Create(c *gin.Context) {
	var req challenges.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}

	challenge, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create challenge")
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"challenge":    challenge,
		"generated_at": time.Now().UTC(),
	})
}

// Update edits a challenge and bumps its version. Admin only.
// PUT /api/v1/challenges/:id.
func (h *Handler) Update(c *gin.Context) {
	var req challenges.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}

	challenge, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenge":    challenge,
		"generated_at": time.Now().UTC(),
	})
}

// Delete removes a challenge and its dependent rows. Admin only.
// DELETE /api/v1/challenges/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
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
