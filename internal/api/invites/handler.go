// Package invites provides admin REST API handlers for challenge invite
// tokens.
package invites

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/api/respond"
	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/service/invites"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// InviteService interface for invite operations.
type InviteService interface {
	Create(ctx context.Context, challengeID string, req invites.CreateRequest) (*invites.Invite, error)
	List(ctx context.Context, challengeID string) ([]invites.Invite, error)
	Revoke(ctx context.Context, challengeID, token string) error
}

// Handler handles invite API requests.
type Handler struct {
	service InviteService
	log     *logger.Logger
}

// NewHandler creates a new invite handler.
func NewHandler(service *invites.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new invite handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service InviteService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Create mints an invite token for a challenge. Admin only.
// POST /api/v1/challenges/:id/invites.
func (h *Handler) Create(c *gin.Context) {
	var req invites.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}

	invite, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invite":       invite,
		"generated_at": time.Now().UTC(),
	})
}

// List returns all invites for a challenge. Admin only.
// GET /api/v1/challenges/:id/invites.
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invites":      list,
		"total":        len(list),
		"generated_at": time.Now().UTC(),
	})
}

// Revoke deletes an invite token. Admin only.
// DELETE /api/v1/challenges/:id/invites/:token.
func (h *Handler) Revoke(c *gin.Context) {
	if err := h.service.Revoke(c.Request.Context(), c.Param("id"), c.Param("token")); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
