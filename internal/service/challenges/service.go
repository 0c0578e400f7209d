// Package challenges provides challenge catalog management.
package challenges

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ChallengeRepository interface for challenge storage.
type ChallengeRepository interface {
	Create(challenge *models.Challenge) error
	GetByID(id string) (*models.Challenge, error)
	List(filter repository.ChallengeFilter) ([]models.ChallengeListItem, error)
	Update(challenge *models.Challenge) error
	Delete(id string) (bool, error)
}

// CreateRequest carries the admin-authored challenge definition.
type CreateRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Author        *string         `json:"author,omitempty"`
	Category      string          `json:"category"`
	ChallengeType string          `json:"type"`
	Configuration json.RawMessage `json:"configuration"`
	InviteConfig  json.RawMessage `json:"inviteConfig,omitempty"`
}

// UpdateRequest carries challenge edits; every update bumps the version.
type UpdateRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Author        *string         `json:"author,omitempty"`
	Category      string          `json:"category"`
	ChallengeType string          `json:"type"`
	Configuration json.RawMessage `json:"configuration"`
	InviteConfig  json.RawMessage `json:"inviteConfig,omitempty"`
	IsActive      *bool           `json:"isActive,omitempty"`
}

// Service manages the challenge catalog.
type Service struct {
	repo ChallengeRepository
	log  *logger.Logger
}

// NewService creates a new challenge service with the concrete repository.
func NewService(repo *repository.ChallengeRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// NewServiceWithInterfaces creates a new challenge service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(repo ChallengeRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns challenge list items matching the filter.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) List(ctx context.Context, filter repository.ChallengeFilter) ([]models.ChallengeListItem, error) {
	items, err := s.repo.List(filter)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to list challenges: %w", err))
	}
	return items, nil
}

// Get returns one challenge by id.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Get(ctx context.Context, id string) (*models.Challenge, error) {
	challenge, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(id)
	}
	return challenge, nil
}

// Create inserts a new challenge. The configuration document is stored
// verbatim; interpretation happens per request at scoring time.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Challenge, error) {
	configuration := req.Configuration
	if len(configuration) == 0 {
		configuration = json.RawMessage(`{}`)
	}

	challenge := &models.Challenge{
		Name:          req.Name,
		Description:   req.Description,
		Author:        req.Author,
		Category:      req.Category,
		ChallengeType: req.ChallengeType,
		Configuration: configuration,
		InviteConfig:  req.InviteConfig,
		IsActive:      true,
	}
	if err := s.repo.Create(challenge); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create challenge: %w", err))
	}

	s.log.Info().
		Str("challenge_id", challenge.ID).
		Str("name", challenge.Name).
		Msg("Challenge created")
	return challenge, nil
}

// Update applies edits and increments the version counter. Stored progress
// is not rescored; rows catch up when their participants next report.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*models.Challenge, error) {
	challenge, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to load challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperr.ChallengeNotFound(id)
	}

	if req.Name != "" {
		challenge.Name = req.Name
	}
	if req.Description != "" {
		challenge.Description = req.Description
	}
	if req.Author != nil {
		challenge.Author = req.Author
	}
	if req.Category != "" {
		challenge.Category = req.Category
	}
	if req.ChallengeType != "" {
		challenge.ChallengeType = req.ChallengeType
	}
	if len(req.Configuration) > 0 {
		challenge.Configuration = req.Configuration
	}
	if len(req.InviteConfig) > 0 {
		challenge.InviteConfig = req.InviteConfig
	}
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}

	if err := s.repo.Update(challenge); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to update challenge: %w", err))
	}

	s.log.Info().
		Str("challenge_id", challenge.ID).
		Int("version", challenge.Version).
		Msg("Challenge updated")
	return challenge, nil
}

// Delete removes a challenge and cascades its dependent rows.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete challenge: %w", err))
	}
	if !deleted {
		return apperr.ChallengeNotFound(id)
	}

	s.log.Info().Str("challenge_id", id).Msg("Challenge deleted")
	return nil
}
