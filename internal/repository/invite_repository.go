package repository

import (
	"gorm.io/gorm"

	"github.com/n0xlf/hamchallenges/internal/models"
)

// InviteRepository handles challenge invite tokens.
type InviteRepository struct {
	db *DB
}

// NewInviteRepository creates a new invite repository.
func NewInviteRepository(db *DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create inserts a new invite token.
func (r *InviteRepository) Create(invite *models.InviteToken) error {
	return r.db.Create(invite).Error
}

// GetByToken retrieves an invite, or nil when unknown.
func (r *InviteRepository) GetByToken(token string) (*models.InviteToken, error) {
	var invite models.InviteToken
	err := r.db.First(&invite, "token = ?", token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invite, nil
}

// ListByChallenge returns all invites for a challenge, newest first.
func (r *InviteRepository) ListByChallenge(challengeID string) ([]models.InviteToken, error) {
	var invites []models.InviteToken
	err := r.db.
		Where("challenge_id = ?", challengeID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

// IncrementUse bumps the use counter after a successful join.
func (r *InviteRepository) IncrementUse(token string) error {
	return r.db.Model(&models.InviteToken{}).
		Where("token = ?", token).
		Update("use_count", gorm.Expr("use_count + 1")).Error
}

// Delete removes an invite. Returns false when the token was unknown.
func (r *InviteRepository) Delete(token string) (bool, error) {
	res := r.db.Delete(&models.InviteToken{}, "token = ?", token)
	return res.RowsAffected > 0, res.Error
}
