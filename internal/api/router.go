// Package api wires handlers, middleware, and routes into the gin engine.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/n0xlf/hamchallenges/internal/api/badges"
	"github.com/n0xlf/hamchallenges/internal/api/challenges"
	"github.com/n0xlf/hamchallenges/internal/api/friends"
	"github.com/n0xlf/hamchallenges/internal/api/health"
	"github.com/n0xlf/hamchallenges/internal/api/invites"
	"github.com/n0xlf/hamchallenges/internal/api/leaderboard"
	"github.com/n0xlf/hamchallenges/internal/api/membership"
	"github.com/n0xlf/hamchallenges/internal/api/progress"
	"github.com/n0xlf/hamchallenges/internal/api/users"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/config"
)

// RouterConfig carries everything the router needs to assemble routes.
type RouterConfig struct {
	Config      *config.Config
	Auth        *auth.Middleware
	Health      *health.Handler
	Challenges  *challenges.Handler
	Membership  *membership.Handler
	Progress    *progress.Handler
	Leaderboard *leaderboard.Handler
	Invites     *invites.Handler
	Friends     *friends.Handler
	Badges      *badges.Handler
	Users       *users.Handler
}

// NewRouter assembles the gin engine: public catalog and join routes,
// device-token routes for participants, and admin-token routes for catalog
// mutations and invite management.
func NewRouter(rc RouterConfig) *gin.Engine {
	if rc.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(rc.Auth.RateLimit())

	router.GET("/healthz", rc.Health.Check)
	if rc.Config.Metrics.Enabled {
		router.GET(rc.Config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Public: catalog reads, badge images, and joining (device tokens are
	// issued on join, so it cannot require one).
	v1.GET("/challenges", rc.Challenges.List)
	v1.GET("/challenges/:id", rc.Challenges.Get)
	v1.GET("/challenges/:id/leaderboard", rc.Leaderboard.Get)
	v1.GET("/challenges/:id/badges", rc.Badges.List)
	v1.GET("/badges/:id/image", rc.Badges.Image)
	v1.POST("/challenges/:id/join", rc.Membership.Join)

	// Participant routes.
	device := v1.Group("/")
	device.Use(rc.Auth.RequireDeviceToken())
	device.POST("/challenges/:id/leave", rc.Membership.Leave)
	device.POST("/challenges/:id/progress", rc.Progress.Report)
	device.GET("/challenges/:id/progress", rc.Progress.Get)

	device.GET("/friends", rc.Friends.ListFriends)
	device.GET("/friends/me", rc.Friends.Me)
	device.POST("/friends/invite", rc.Friends.CreateInviteLink)
	device.POST("/friends/requests", rc.Friends.SendRequest)
	device.GET("/friends/requests", rc.Friends.ListRequests)
	device.POST("/friends/requests/:id/accept", rc.Friends.AcceptRequest)
	device.POST("/friends/requests/:id/decline", rc.Friends.DeclineRequest)
	device.POST("/friends/suggested", rc.Friends.Suggested)

	device.GET("/users/me/participations", rc.Users.Participations)
	device.DELETE("/users/me", rc.Users.DeleteAccount)

	// Admin routes.
	admin := v1.Group("/")
	admin.Use(rc.Auth.RequireAdminToken())
	admin.POST("/challenges", rc.Challenges.Create)
	admin.PUT("/challenges/:id", rc.Challenges.Update)
	admin.DELETE("/challenges/:id", rc.Challenges.Delete)
	admin.POST("/challenges/:id/invites", rc.Invites.Create)
	admin.GET("/challenges/:id/invites", rc.Invites.List)
	admin.DELETE("/challenges/:id/invites/:token", rc.Invites.Revoke)
	admin.POST("/challenges/:id/badges", rc.Badges.Upload)
	admin.DELETE("/badges/:id", rc.Badges.Delete)

	return router
}
