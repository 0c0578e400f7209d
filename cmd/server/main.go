// Command server runs the amateur-radio challenges API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/n0xlf/hamchallenges/internal/api"
	apibadges "github.com/n0xlf/hamchallenges/internal/api/badges"
	apichallenges "github.com/n0xlf/hamchallenges/internal/api/challenges"
	apifriends "github.com/n0xlf/hamchallenges/internal/api/friends"
	"github.com/n0xlf/hamchallenges/internal/api/health"
	apiinvites "github.com/n0xlf/hamchallenges/internal/api/invites"
	apileaderboard "github.com/n0xlf/hamchallenges/internal/api/leaderboard"
	"github.com/n0xlf/hamchallenges/internal/api/membership"
	apiprogress "github.com/n0xlf/hamchallenges/internal/api/progress"
	apiusers "github.com/n0xlf/hamchallenges/internal/api/users"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/cache"
	"github.com/n0xlf/hamchallenges/internal/config"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/internal/service/badges"
	"github.com/n0xlf/hamchallenges/internal/service/challenges"
	"github.com/n0xlf/hamchallenges/internal/service/friends"
	"github.com/n0xlf/hamchallenges/internal/service/invites"
	"github.com/n0xlf/hamchallenges/internal/service/join"
	"github.com/n0xlf/hamchallenges/internal/service/leaderboard"
	"github.com/n0xlf/hamchallenges/internal/service/progress"
	"github.com/n0xlf/hamchallenges/internal/service/users"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	var redisCache cache.Cache
	if cfg.RateLimit.Enabled {
		rc, err := cache.NewRedisCache(&cfg.Database.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rc.Close()
		redisCache = rc
	}

	// Repositories.
	challengeRepo := repository.NewChallengeRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	// Services.
	leaderboardService := leaderboard.NewService(challengeRepo, progressRepo, log)
	progressService := progress.NewService(challengeRepo, participantRepo, progressRepo, leaderboardService, log)
	challengeService := challenges.NewService(challengeRepo, log)
	joinService := join.NewService(challengeRepo, participantRepo, inviteRepo, progressRepo, log)
	inviteService := invites.NewService(challengeRepo, inviteRepo, cfg.Invites, log)
	friendService := friends.NewService(friendRepo, cfg.Invites, log)
	badgeService := badges.NewService(challengeRepo, badgeRepo, log)
	userService := users.NewService(participantRepo, progressRepo, friendRepo, log)

	authMiddleware := auth.NewMiddleware(participantRepo, redisCache, cfg, log)

	router := api.NewRouter(api.RouterConfig{
		Config:      cfg,
		Auth:        authMiddleware,
		Health:      health.NewHandler(db, log),
		Challenges:  apichallenges.NewHandler(challengeService, log),
		Membership:  membership.NewHandler(joinService, log),
		Progress:    apiprogress.NewHandler(progressService, log),
		Leaderboard: apileaderboard.NewHandler(leaderboardService, log),
		Invites:     apiinvites.NewHandler(inviteService, log),
		Friends:     apifriends.NewHandler(friendService, log),
		Badges:      apibadges.NewHandler(badgeService, cfg.Server.BaseURL, log),
		Users:       apiusers.NewHandler(userService, log),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server stopped")
}
