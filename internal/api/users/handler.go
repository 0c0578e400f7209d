// Package users provides REST API handlers for account-level operations.
package users

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/api/respond"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/internal/service/users"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// UserService interface for account operations.
type UserService interface {
	Participations(ctx context.Context, callsign string) ([]repository.ParticipationRow, error)
	DeleteAccount(ctx context.Context, callsign string) error
}

// Handler handles account API requests. All routes require a device token.
type Handler struct {
	service UserService
	log     *logger.Logger
}

// NewHandler creates a new users handler.
func NewHandler(service *users.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new users handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service UserService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Participations returns the caller's active challenge memberships.
// GET /api/v1/users/me/participations.
func (h *Handler) Participations(c *gin.Context) {
	rows, err := h.service.Participations(c.Request.Context(), auth.Callsign(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participations": rows,
		"total":          len(rows),
		"generated_at":   time.Now().UTC(),
	})
}

// DeleteAccount removes everything tied to the caller's callsign.
// DELETE /api/v1/users/me.
func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), auth.Callsign(c)); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
