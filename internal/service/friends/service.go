// Package friends implements the social layer: friend requests, invite
// links, friendships, and friend suggestions.
package friends

import (
	"context"
	"fmt"
	"time"

	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/config"
	"github.com/n0xlf/hamchallenges/internal/metrics"
	"github.com/n0xlf/hamchallenges/internal/models"
	"github.com/n0xlf/hamchallenges/internal/repository"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// FriendRepository interface for social storage.
type FriendRepository interface {
	GetOrCreateUser(callsign string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	CreateRequest(fromUserID, toUserID string) (*models.FriendRequest, error)
	GetRequest(requestID string) (*models.FriendRequest, error)
	GetPendingRequestBetween(userID1, userID2 string) (*models.FriendRequest, error)
	ListPendingRequests(userID string) ([]models.FriendRequest, error)
	AreFriends(userID1, userID2 string) (bool, error)
	AcceptRequest(requestID string) (*models.FriendRequest, error)
	DeclineRequest(requestID string) (*models.FriendRequest, error)
	ListFriends(userID string) ([]models.User, error)
	FindSuggestedFriends(userID string, callsigns []string) ([]models.User, error)
	CreateFriendInvite(userID, token string, expiresAt time.Time) (*models.FriendInvite, error)
	GetValidFriendInvite(token string) (*models.FriendInvite, error)
	MarkInviteUsed(token, usedByUserID string) error
}

// SendRequest identifies the target either by user id or by a friend invite
// token, never both.
type SendRequest struct {
	ToUserID    *string `json:"toUserId,omitempty"`
	InviteToken *string `json:"inviteToken,omitempty"`
}

// InviteLink is the API view of a personal friend invite.
type InviteLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service manages friend requests and friendships.
type Service struct {
	repo FriendRepository
	cfg  config.InvitesConfig
	log  *logger.Logger
}

// NewService creates a new friends service with the concrete repository.
func NewService(repo *repository.FriendRepository, cfg config.InvitesConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// NewServiceWithInterfaces creates a new friends service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(repo FriendRepository, cfg config.InvitesConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Register returns the user behind a callsign, creating it on first contact.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Register(ctx context.Context, callsign string) (*models.User, error) {
	user, err := s.repo.GetOrCreateUser(callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to resolve user: %w", err))
	}
	return user, nil
}

// CreateInviteLink mints a personal invite link for the caller.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) CreateInviteLink(ctx context.Context, callsign string) (*InviteLink, error) {
	user, err := s.repo.GetOrCreateUser(callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to resolve user: %w", err))
	}

	token := auth.GenerateInviteToken()
	expiresAt := time.Now().UTC().AddDate(0, 0, s.cfg.ExpiryDays)
	invite, err := s.repo.CreateFriendInvite(user.ID, token, expiresAt)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create friend invite: %w", err))
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("token", invite.Token).
		Msg("Friend invite created")

	return &InviteLink{
		Token:     invite.Token,
		URL:       fmt.Sprintf("%s/friends/invite/%s", s.cfg.BaseURL, invite.Token),
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

// Send creates a pending friend request from the caller to either a known
// user id or the owner of a valid invite token. Redeeming an invite consumes
// it.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Send(ctx context.Context, callsign string, req SendRequest) (*models.FriendRequest, error) {
	if (req.ToUserID == nil) == (req.InviteToken == nil) {
		return nil, apperr.Validation("exactly one of toUserId or inviteToken is required")
	}

	from, err := s.repo.GetOrCreateUser(callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to resolve user: %w", err))
	}

	var to *models.User
	var consumeToken *string
	if req.ToUserID != nil {
		to, err = s.repo.GetUserByID(*req.ToUserID)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to load user: %w", err))
		}
		if to == nil {
			return nil, apperr.UserNotFound(*req.ToUserID)
		}
	} else {
		invite, err := s.repo.GetValidFriendInvite(*req.InviteToken)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to load friend invite: %w", err))
		}
		if invite == nil {
			return nil, apperr.FriendInviteNotFound(*req.InviteToken)
		}
		to, err = s.repo.GetUserByID(invite.UserID)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to load invite owner: %w", err))
		}
		if to == nil {
			return nil, apperr.UserNotFound(invite.UserID)
		}
		consumeToken = req.InviteToken
	}

	if to.ID == from.ID {
		return nil, apperr.ErrCannotFriendSelf
	}

	already, err := s.repo.AreFriends(from.ID, to.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to check friendship: %w", err))
	}
	if already {
		return nil, apperr.ErrAlreadyFriends
	}

	pending, err := s.repo.GetPendingRequestBetween(from.ID, to.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to check pending requests: %w", err))
	}
	if pending != nil {
		return nil, apperr.ErrFriendRequestExists
	}

	request, err := s.repo.CreateRequest(from.ID, to.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create friend request: %w", err))
	}

	if consumeToken != nil {
		if err := s.repo.MarkInviteUsed(*consumeToken, from.ID); err != nil {
			s.log.Warn().Err(err).Str("token", *consumeToken).Msg("Failed to mark friend invite used")
		}
	}

	metrics.RecordFriendRequest("created")
	s.log.Info().
		Str("from_user_id", from.ID).
		Str("to_user_id", to.ID).
		Msg("Friend request sent")
	return request, nil
}

// Accept flips a pending request addressed to the caller to accepted and
// creates the friendship.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Accept(ctx context.Context, callsign, requestID string) (*models.FriendRequest, error) {
	if err := s.authorizeRecipient(callsign, requestID); err != nil {
		return nil, err
	}

	accepted, err := s.repo.AcceptRequest(requestID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to accept friend request: %w", err))
	}
	if accepted == nil {
		return nil, apperr.FriendRequestNotFound(requestID)
	}

	metrics.RecordFriendRequest("accepted")
	s.log.Info().Str("request_id", requestID).Msg("Friend request accepted")
	return accepted, nil
}

// Decline flips a pending request addressed to the caller to declined.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Decline(ctx context.Context, callsign, requestID string) (*models.FriendRequest, error) {
	if err := s.authorizeRecipient(callsign, requestID); err != nil {
		return nil, err
	}

	declined, err := s.repo.DeclineRequest(requestID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to decline friend request: %w", err))
	}
	if declined == nil {
		return nil, apperr.FriendRequestNotFound(requestID)
	}

	metrics.RecordFriendRequest("declined")
	s.log.Info().Str("request_id", requestID).Msg("Friend request declined")
	return declined, nil
}

// ListFriends returns the caller's friends.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) ListFriends(ctx context.Context, callsign string) ([]models.User, error) {
	user, err := s.repo.GetOrCreateUser(callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to resolve user: %w", err))
	}

	friends, err := s.repo.ListFriends(user.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to list friends: %w", err))
	}
	if friends == nil {
		friends = []models.User{}
	}
	return friends, nil
}

// ListPending returns pending requests addressed to the caller.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) ListPending(ctx context.Context, callsign string) ([]models.FriendRequest, error) {
	user, err := s.repo.GetOrCreateUser(callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to resolve user: %w", err))
	}

	requests, err := s.repo.ListPendingRequests(user.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to list friend requests: %w", err))
	}
	if requests == nil {
		requests = []models.FriendRequest{}
	}
	return requests, nil
}

// Suggested matches a client-supplied contact list of callsigns against
// registered users, filtering out the caller, friends, and pending pairs.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Suggested(ctx context.Context, callsign string, callsigns []string) ([]models.User, error) {
	user, err := s.repo.GetOrCreateUser(callsign)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to resolve user: %w", err))
	}

	suggested, err := s.repo.FindSuggestedFriends(user.ID, callsigns)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to find suggestions: %w", err))
	}
	if suggested == nil {
		suggested = []models.User{}
	}
	return suggested, nil
}

// authorizeRecipient ensures the caller is the addressee of the request.
func (s *Service) authorizeRecipient(callsign, requestID string) error {
	user, err := s.repo.GetOrCreateUser(callsign)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to resolve user: %w", err))
	}

	request, err := s.repo.GetRequest(requestID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to load friend request: %w", err))
	}
	if request == nil || request.ToUserID != user.ID {
		return apperr.FriendRequestNotFound(requestID)
	}
	return nil
}
