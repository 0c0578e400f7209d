// Package badges provides REST API handlers for challenge badge images.
package badges

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/api/respond"
	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/service/badges"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// BadgeService interface for badge operations.
type BadgeService interface {
	Upload(ctx context.Context, challengeID string, req badges.UploadRequest) (*models.BadgeMetadata, error)
	List(ctx context.Context, challengeID string) ([]models.BadgeMetadata, error)
	Image(ctx context.Context, badgeID string) ([]byte, string, error)
	Delete(ctx context.Context, badgeID string) error
}

// Handler handles badge API requests.
type Handler struct {
	service BadgeService
	baseURL string
	log     *logger.Logger
}

// NewHandler creates a new badge handler. baseURL is the public base for
// rendered image URLs.
func NewHandler(service *badges.Service, baseURL string, log *logger.Logger) *Handler {
	return &Handler{service: service, baseURL: baseURL, log: log}
}

// NewHandlerWithInterfaces creates a new badge handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service BadgeService, baseURL string, log *logger.Logger) *Handler {
	return &Handler{service: service, baseURL: baseURL, log: log}
}

// Upload stores a badge image sent as the raw request body. Admin only.
// POST /api/v1/challenges/:id/badges?name=&tier=.
func (h *Handler) Upload(c *gin.Context) {
	name := c.Query("name")
	var tierID *string
	if tier := c.Query("tier"); tier != "" {
		tierID = &tier
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, badges.MaxImageBytes+1))
	if err != nil {
		respond.Error(c, apperr.Validation("failed to read image body"))
		return
	}

	meta, err := h.service.Upload(c.Request.Context(), c.Param("id"), badges.UploadRequest{
		Name:        name,
		TierID:      tierID,
		ContentType: c.ContentType(),
		ImageData:   data,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"badge":        h.render(meta),
		"generated_at": time.Now().UTC(),
	})
}

// List returns badge metadata for a challenge with rendered image URLs.
// GET /api/v1/challenges/:id/badges.
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	rendered := make([]gin.H, 0, len(list))
	for i := range list {
		rendered = append(rendered, h.render(&list[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"badges":       rendered,
		"total":        len(rendered),
		"generated_at": time.Now().UTC(),
	})
}

// Image serves a badge's image bytes with its stored content type.
// GET /api/v1/badges/:id/image.
func (h *Handler) Image(c *gin.Context) {
	data, contentType, err := h.service.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// Delete removes a badge. Admin only.
// DELETE /api/v1/badges/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) render(meta *models.BadgeMetadata) gin.H {
	return gin.H{
		"id":          meta.ID,
		"challengeId": meta.ChallengeID,
		"name":        meta.Name,
		"tierId":      meta.TierID,
		"contentType": meta.ContentType,
		"imageUrl":    fmt.Sprintf("%s/api/v1/badges/%s/image", h.baseURL, meta.ID),
		"createdAt":   meta.CreatedAt,
	}
}
