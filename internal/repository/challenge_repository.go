package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/n0xlf/hamchallenges/internal/models"
)

// ChallengeRepository handles challenge rows.
type ChallengeRepository struct {
	db *DB
}

// NewChallengeRepository creates a new challenge repository.
func NewChallengeRepository(db *DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// ChallengeFilter narrows List results. Zero values mean "no filter".
type ChallengeFilter struct {
	Category      string
	ChallengeType string
	Active        *bool
	Limit         int
	Offset        int
}

// Create inserts a new challenge at version 1.
func (r *ChallengeRepository) Create(challenge *models.Challenge) error {
	if challenge.ID == "" {
		challenge.ID = uuid.NewString()
	}
	if challenge.Version == 0 {
		challenge.Version = 1
	}
	return r.db.Create(challenge).Error
}

// GetByID retrieves a challenge, or nil when it does not exist.
func (r *ChallengeRepository) GetByID(id string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.First(&challenge, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &challenge, nil
}

// List returns challenge list items with participant counts.
func (r *ChallengeRepository) List(filter ChallengeFilter) ([]models.ChallengeListItem, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	q := r.db.Model(&models.Challenge{}).
		Select(`challenges.id, challenges.name, challenges.description, challenges.category,
			challenges.challenge_type, challenges.is_active,
			(SELECT COUNT(*) FROM challenge_participants cp WHERE cp.challenge_id = challenges.id) AS participant_count`)

	if filter.Category != "" {
		q = q.Where("challenges.category = ?", filter.Category)
	}
	if filter.ChallengeType != "" {
		q = q.Where("challenges.challenge_type = ?", filter.ChallengeType)
	}
	if filter.Active != nil {
		q = q.Where("challenges.is_active = ?", *filter.Active)
	}

	var items []models.ChallengeListItem
	err := q.Order("challenges.created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Scan(&items).Error
	return items, err
}

// Update saves challenge edits and increments the version counter. No
// history is kept; the row is overwritten in place.
func (r *ChallengeRepository) Update(challenge *models.Challenge) error {
	challenge.Version++
	return r.db.Save(challenge).Error
}

// Delete removes a challenge and cascades its participations, progress,
// invites, and badges in one transaction. Returns false when the challenge
// did not exist.
func (r *ChallengeRepository) Delete(id string) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Challenge{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		if !deleted {
			return nil
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&models.ChallengeParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&models.InviteToken{}).Error; err != nil {
			return err
		}
		return tx.Where("challenge_id = ?", id).Delete(&models.Badge{}).Error
	})
	return deleted, err
}
