package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/n0xlf/hamchallenges/internal/models"
)

// FriendRepository handles users, friend requests, friendships, and friend
// invite links.
type FriendRepository struct {
	db *DB
}

// NewFriendRepository creates a new friend repository.
func NewFriendRepository(db *DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// GetOrCreateUser returns the user row for a callsign, creating it lazily.
func (r *FriendRepository) GetOrCreateUser(callsign string) (*models.User, error) {
	normalized := NormalizeCallsign(callsign)

	var user models.User
	err := r.db.Where("callsign = ?", normalized).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = models.User{
		ID:        uuid.NewString(),
		Callsign:  normalized,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user, or nil when unknown.
func (r *FriendRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateRequest inserts a pending friend request.
func (r *FriendRepository) CreateRequest(fromUserID, toUserID string) (*models.FriendRequest, error) {
	request := &models.FriendRequest{
		ID:          uuid.NewString(),
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		Status:      models.FriendRequestPending,
		RequestedAt: time.Now().UTC(),
	}
	if err := r.db.Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// GetRequest retrieves a friend request, or nil when unknown.
func (r *FriendRepository) GetRequest(requestID string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.First(&request, "id = ?", requestID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// GetPendingRequestBetween finds a pending request in either direction
// between two users, or nil.
func (r *FriendRepository) GetPendingRequestBetween(userID1, userID2 string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.
		Where("status = ?", models.FriendRequestPending).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID1, userID2, userID2, userID1).
		First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// ListPendingRequests returns pending requests addressed to a user.
func (r *FriendRepository) ListPendingRequests(userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.
		Where("to_user_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

// AreFriends reports whether a friendship row exists in either direction.
func (r *FriendRepository) AreFriends(userID1, userID2 string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID1, userID2, userID2, userID1).
		Count(&count).Error
	return count > 0, err
}

// AcceptRequest flips a pending request to accepted and writes both
// friendship directions atomically: either the status update and both rows
// land, or none do. Returns nil when the request was not pending.
func (r *FriendRepository) AcceptRequest(requestID string) (*models.FriendRequest, error) {
	var accepted *models.FriendRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var request models.FriendRequest
		err := tx.
			Where("id = ? AND status = ?", requestID, models.FriendRequestPending).
			First(&request).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		now := time.Now().UTC()
		request.Status = models.FriendRequestAccepted
		request.RespondedAt = &now
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		pair := []models.Friendship{
			{ID: uuid.NewString(), UserID: request.FromUserID, FriendID: request.ToUserID, CreatedAt: now},
			{ID: uuid.NewString(), UserID: request.ToUserID, FriendID: request.FromUserID, CreatedAt: now},
		}
		if err := tx.Create(&pair).Error; err != nil {
			return err
		}

		accepted = &request
		return nil
	})
	return accepted, err
}

// DeclineRequest flips a pending request to declined. Returns nil when the
// request was not pending.
func (r *FriendRepository) DeclineRequest(requestID string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.
		Where("id = ? AND status = ?", requestID, models.FriendRequestPending).
		First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now().UTC()
	request.Status = models.FriendRequestDeclined
	request.RespondedAt = &now
	if err := r.db.Save(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListFriends returns the users a user is friends with.
func (r *FriendRepository) ListFriends(userID string) ([]models.User, error) {
	var friends []models.User
	err := r.db.Model(&models.User{}).
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Order("users.callsign ASC").
		Find(&friends).Error
	return friends, err
}

// FindSuggestedFriends returns registered users matching the given
// callsigns, excluding the requester, existing friends, and users with a
// pending request in either direction.
func (r *FriendRepository) FindSuggestedFriends(userID string, callsigns []string) ([]models.User, error) {
	if len(callsigns) == 0 {
		return []models.User{}, nil
	}

	normalized := make([]string, 0, len(callsigns))
	for _, cs := range callsigns {
		normalized = append(normalized, NormalizeCallsign(cs))
	}

	var users []models.User
	err := r.db.Model(&models.User{}).
		Where("callsign IN ?", normalized).
		Where("id <> ?", userID).
		Where("id NOT IN (SELECT friend_id FROM friendships WHERE user_id = ?)", userID).
		Where(`id NOT IN (
			SELECT to_user_id FROM friend_requests WHERE from_user_id = ? AND status = ?
			UNION
			SELECT from_user_id FROM friend_requests WHERE to_user_id = ? AND status = ?
		)`, userID, models.FriendRequestPending, userID, models.FriendRequestPending).
		Find(&users).Error
	return users, err
}

// CreateFriendInvite inserts a personal invite link row.
func (r *FriendRepository) CreateFriendInvite(userID, token string, expiresAt time.Time) (*models.FriendInvite, error) {
	invite := &models.FriendInvite{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	if err := r.db.Create(invite).Error; err != nil {
		return nil, err
	}
	return invite, nil
}

// GetValidFriendInvite returns an unused, unexpired invite for a token, or
// nil.
func (r *FriendRepository) GetValidFriendInvite(token string) (*models.FriendInvite, error) {
	var invite models.FriendInvite
	err := r.db.
		Where("token = ? AND used_at IS NULL AND expires_at > ?", token, time.Now().UTC()).
		First(&invite).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invite, nil
}

// MarkInviteUsed stamps an invite as consumed by a user.
func (r *FriendRepository) MarkInviteUsed(token, usedByUserID string) error {
	return r.db.Model(&models.FriendInvite{}).
		Where("token = ?", token).
		Updates(map[string]interface{}{
			"used_at":         time.Now().UTC(),
			"used_by_user_id": usedByUserID,
		}).Error
}

// DeleteUserData removes a user's social footprint: friendships, requests,
// and invites in both directions, then the user row itself.
func (r *FriendRepository) DeleteUserData(callsign string) error {
	normalized := NormalizeCallsign(callsign)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("callsign = ?", normalized).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		if err := tx.Where("user_id = ? OR friend_id = ?", user.ID, user.ID).
			Delete(&models.Friendship{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_user_id = ? OR to_user_id = ?", user.ID, user.ID).
			Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).
			Delete(&models.FriendInvite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}
