// Package badges manages per-challenge badge images.
package badges

import (
	"context"
	"fmt"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ChallengeRepository interface for challenge lookups.
type ChallengeRepository interface {
	GetByID(id string) (*models.Challenge, error)
}

// BadgeRepository interface for badge storage.
type BadgeRepository interface {
	Create(badge *models.Badge) error
	GetByID(id string) (*models.Badge, error)
	ListByChallenge(challengeID string) ([]models.BadgeMetadata, error)
	Delete(id string) (bool, error)
}

// UploadRequest carries an admin-uploaded badge image.
type UploadRequest struct {
	Name        string
	TierID      *string
	ContentType string
	ImageData   []byte
}

// Allowed image content types for badge uploads.
var allowedContentTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/svg+xml": true,
	"image/webp":    true,
}

// MaxImageBytes caps badge image uploads at 1 MiB.
const MaxImageBytes = 1 << 20

// Service manages badge uploads and retrieval.
type Service struct {
	challengeRepo ChallengeRepository
	badgeRepo     BadgeRepository
	log           *logger.Logger
}

// NewService creates a new badge service with concrete repositories.
func NewService(challengeRepo *repository.ChallengeRepository, badgeRepo *repository.BadgeRepository, log *logger.Logger) *Service {
	return &Service{challengeRepo: challengeRepo, badgeRepo: badgeRepo, log: log}
}

// NewServiceWithInterfaces creates a new badge service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(challengeRepo ChallengeRepository, badgeRepo BadgeRepository, log *logger.Logger) *Service {
	return &Service{challengeRepo: challengeRepo, badgeRepo: badgeRepo, log: log}
}

// Upload stores a badge image for a challenge.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Upload(ctx context.Context, challengeID string, req UploadRequest) (*models.BadgeMetadata, error) {
	if req.Name == "" {
		return nil, apperr.Validation("badge name is required")
	}
	if !allowedContentTypes[req.ContentType] {
		return nil, apperr.Validation("unsupported image content type")
	}
	if len(req.ImageData) == 0 {
		return nil, apperr.Validation("badge image is required")
	}
	if len(req.ImageData) > MaxImageBytes {
		return nil, apperr.Validation("badge image exceeds the 1 MiB limit")
	}

	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(challengeID)
	}

	badge := &models.Badge{
		ChallengeID: challengeID,
		Name:        req.Name,
		TierID:      req.TierID,
		ImageData:   req.ImageData,
		ContentType: req.ContentType,
	}
	if err := s.badgeRepo.Create(badge); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create badge: %w", err))
	}

	s.log.Info().
		Str("challenge_id", challengeID).
		Str("badge_id", badge.ID).
		Str("name", badge.Name).
		Msg("Badge uploaded")

	return &models.BadgeMetadata{
		ID:          badge.ID,
		ChallengeID: badge.ChallengeID,
		Name:        badge.Name,
		TierID:      badge.TierID,
		ContentType: badge.ContentType,
		CreatedAt:   badge.CreatedAt,
	}, nil
}

// List returns badge metadata for a challenge, without image payloads.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) List(ctx context.Context, challengeID string) ([]models.BadgeMetadata, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(challengeID)
	}

	badges, err := s.badgeRepo.ListByChallenge(challengeID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to list badges: %w", err))
	}
	if badges == nil {
		badges = []models.BadgeMetadata{}
	}
	return badges, nil
}

// Image returns a badge's image bytes and content type.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Image(ctx context.Context, badgeID string) ([]byte, string, error) {
	badge, err := s.badgeRepo.GetByID(badgeID)
	if err != nil {
		return nil, "", apperr.Internal(fmt.Errorf("failed to load badge: %w", err))
	}
	if badge == nil {
		return nil, "", apperr.BadgeNotFound(badgeID)
	}
	return badge.ImageData, badge.ContentType, nil
}

// Delete removes a badge.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Delete(ctx context.Context, badgeID string) error {
	deleted, err := s.badgeRepo.Delete(badgeID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete badge: %w", err))
	}
	if !deleted {
		return apperr.BadgeNotFound(badgeID)
	}

	s.log.Info().Str("badge_id", badgeID).Msg("Badge deleted")
	return nil
}
