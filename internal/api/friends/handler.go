// Package friends provides REST API handlers for the social layer.
package friends

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/api/respond"
	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/service/friends"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// FriendService interface for social operations.
type FriendService interface {
	Register(ctx context.Context, callsign string) (*models.User, error)
	CreateInviteLink(ctx context.Context, callsign string) (*friends.InviteLink, error)
	Send(ctx context.Context, callsign string, req friends.SendRequest) (*models.FriendRequest, error)
	Accept(ctx context.Context, callsign, requestID string) (*models.FriendRequest, error)
	Decline(ctx context.Context, callsign, requestID string) (*models.FriendRequest, error)
	ListFriends(ctx context.Context, callsign string) ([]models.User, error)
	ListPending(ctx context.Context, callsign string) ([]models.FriendRequest, error)
	Suggested(ctx context.Context, callsign string, callsigns []string) ([]models.User, error)
}

// Handler handles friends API requests. All routes require a device token.
type Handler struct {
	service FriendService
	log     *logger.Logger
}

// NewHandler creates a new friends handler.
func NewHandler(service *friends.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new friends handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service FriendService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Me returns (and lazily creates) the caller's user record.
// GET /api/v1/friends/me.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Register(c.Request.Context(), auth.Callsign(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateInviteLink mints a personal invite link for the caller.
// POST /api/v1/friends/invite.
func (h *Handler) CreateInviteLink(c *gin.Context) {
	link, err := h.service.CreateInviteLink(c.Request.Context(), auth.Callsign(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invite": link})
}

// SendRequest creates a friend request to a user id or invite token.
// POST /api/v1/friends/requests.
func (h *Handler) SendRequest(c *gin.Context) {
	var req friends.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}

	request, err := h.service.Send(c.Request.Context(), auth.Callsign(c), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": request})
}

// ListRequests returns pending requests addressed to the caller.
// GET /api/v1/friends/requests.
func (h *Handler) ListRequests(c *gin.Context) {
	requests, err := h.service.ListPending(c.Request.Context(), auth.Callsign(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests":     requests,
		"total":        len(requests),
		"generated_at": time.Now().UTC(),
	})
}

// AcceptRequest accepts a pending request addressed to the caller.
// POST /api/v1/friends/requests/:id/accept.
func (h *Handler) AcceptRequest(c *gin.Context) {
	request, err := h.service.Accept(c.Request.Context(), auth.Callsign(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

// DeclineRequest declines a pending request addressed to the caller.
// POST /api/v1/friends/requests/:id/decline.
func (h *Handler) DeclineRequest(c *gin.Context) {
	request, err := h.service.Decline(c.Request.Context(), auth.Callsign(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

// ListFriends returns the caller's friends.
// GET /api/v1/friends.
func (h *Handler) ListFriends(c *gin.Context) {
	list, err := h.service.ListFriends(c.Request.Context(), auth.Callsign(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"friends":      list,
		"total":        len(list),
		"generated_at": time.Now().UTC(),
	})
}

// Suggested matches a client-supplied contact list against registered users.
// POST /api/v1/friends/suggested.
func (h *Handler) Suggested(c *gin.Context) {
	var req struct {
		Callsigns []string `json:"callsigns" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}

	suggested, err := h.service.Suggested(c.Request.Context(), auth.Callsign(c), req.Callsigns)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggested": suggested,
		"total":     len(suggested),
	})
}
