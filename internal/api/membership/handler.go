// Package membership provides REST API handlers for joining and leaving
// challenges.
package membership

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/api/respond"
	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/service/join"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// JoinService interface for membership operations.
type JoinService interface {
	Join(ctx context.Context, challengeID string, req join.JoinRequest) (*join.JoinResponse, error)
	Leave(ctx context.Context, challengeID, callsign string) error
}

// Handler handles membership API requests.
type Handler struct {
	service JoinService
	log     *logger.Logger
}

// NewHandler creates a new membership handler.
func NewHandler(service *join.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new membership handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service JoinService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Join adds the requesting callsign to a challenge. This route is
// unauthenticated: it is where the device token is issued.
// POST /api/v1/challenges/:id/join.
func (h *Handler) Join(c *gin.Context) {
	var req join.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}

	resp, err := h.service.Join(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Leave removes the caller's membership and progress.
// POST /api/v1/challenges/:id/leave.
func (h *Handler) Leave(c *gin.Context) {
	if err := h.service.Leave(c.Request.Context(), c.Param("id"), auth.Callsign(c)); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
