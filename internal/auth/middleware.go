package auth

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/cache"
	"github.com/n0xlf/hamchallenges/internal/config"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// Context keys set by the middleware.
const (
	ContextCallsign      = "auth_callsign"
	ContextParticipantID = "auth_participant_id"
)

// ParticipantLookup resolves device tokens to participants.
type ParticipantLookup interface {
	GetByDeviceToken(token string) (*models.Participant, error)
	TouchLastSeen(id string) error
}

// Middleware builds gin middleware for device-token and admin auth.
type Middleware struct {
	participants ParticipantLookup
	cache        cache.Cache
	cfg          *config.Config
	log          *logger.Logger
}

// NewMiddleware creates auth middleware. Cache may be nil when rate
// limiting is disabled.
func NewMiddleware(participants ParticipantLookup, c cache.Cache, cfg *config.Config, log *logger.Logger) *Middleware {
	return &Middleware{participants: participants, cache: c, cfg: cfg, log: log}
}

// RequireDeviceToken authenticates the bearer device token and stores the
// participant's callsign in the request context.
func (m *Middleware) RequireDeviceToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" || !IsValidTokenFormat(token) {
			abortWith(c, apperr.ErrInvalidToken)
			return
		}

		participant, err := m.participants.GetByDeviceToken(token)
		if err != nil {
			m.log.Error().Err(err).Msg("Failed to look up device token")
			abortWith(c, apperr.Internal(err))
			return
		}
		if participant == nil {
			abortWith(c, apperr.ErrInvalidToken)
			return
		}

		if err := m.participants.TouchLastSeen(participant.ID); err != nil {
			m.log.Warn().Err(err).Str("participant_id", participant.ID).Msg("Failed to update last seen")
		}

		c.Set(ContextCallsign, participant.Callsign)
		c.Set(ContextParticipantID, participant.ID)
		c.Next()
	}
}

// RequireAdminToken guards administrative endpoints with the configured
// admin token.
func (m *Middleware) RequireAdminToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.cfg.Auth.AdminToken)) != 1 {
			abortWith(c, apperr.ErrInvalidToken)
			return
		}
		c.Next()
	}
}

// RateLimit applies a fixed one-minute window per token (falling back to
// client IP for unauthenticated routes).
func (m *Middleware) RateLimit() gin.HandlerFunc {
	if !m.cfg.RateLimit.Enabled || m.cache == nil {
		return func(c *gin.Context) { c.Next() }
	}

	limit := int64(m.cfg.RateLimit.RequestsPerMin)
	return func(c *gin.Context) {
		key := bearerToken(c)
		if key == "" {
			key = c.ClientIP()
		}
		count, err := m.cache.IncrWithTTL(c.Request.Context(), "ratelimit:"+key, time.Minute)
		if err != nil {
			// A broken limiter should not take the API down.
			m.log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if count > limit {
			abortWith(c, apperr.ErrRateLimited)
			return
		}
		c.Next()
	}
}

// Callsign returns the authenticated callsign from the request context.
func Callsign(c *gin.Context) string {
	return c.GetString(ContextCallsign)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func abortWith(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.Status, gin.H{
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
		"timestamp": time.Now().UTC(),
	})
}
