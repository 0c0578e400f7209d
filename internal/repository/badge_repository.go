package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/n0xlf/hamchallenges/internal/models"
)

// BadgeRepository handles per-challenge badge rows.
type BadgeRepository struct {
	db *DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Create inserts a new badge.
func (r *BadgeRepository) Create(badge *models.Badge) error {
	if badge.ID == "" {
		badge.ID = uuid.NewString()
	}
	return r.db.Create(badge).Error
}

// GetByID retrieves a badge including image bytes, or nil when unknown.
func (r *BadgeRepository) GetByID(id string) (*models.Badge, error) {
	var badge models.Badge
	err := r.db.First(&badge, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &badge, nil
}

// ListByChallenge returns badge metadata for a challenge without image
// payloads, oldest first.
func (r *BadgeRepository) ListByChallenge(challengeID string) ([]models.BadgeMetadata, error) {
	var badges []models.BadgeMetadata
	err := r.db.Model(&models.Badge{}).
		Select("id, challenge_id, name, tier_id, content_type, created_at").
		Where("challenge_id = ?", challengeID).
		Order("created_at ASC").
		Scan(&badges).Error
	return badges, err
}

// Delete removes a badge. Returns false when the id was unknown.
func (r *BadgeRepository) Delete(id string) (bool, error) {
	res := r.db.Delete(&models.Badge{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
