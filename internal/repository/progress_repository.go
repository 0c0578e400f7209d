package repository

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/n0xlf/hamchallenges/internal/models"
)

// ProgressRepository handles progress rows. Callsigns are normalized to
// upper case before every lookup and write; the (challenge_id, callsign)
// pair is the conflict target for upserts.
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// NormalizeCallsign upper-cases a callsign for case-insensitive identity.
func NormalizeCallsign(callsign string) string {
	return strings.ToUpper(strings.TrimSpace(callsign))
}

// Upsert inserts or fully replaces the progress row for (challengeID,
// callsign). All mutable fields are overwritten and updated_at is bumped;
// last write wins. Returns the resulting row.
func (r *ProgressRepository) Upsert(
	challengeID, callsign string,
	completedGoals []string,
	currentValue, score int,
	currentTier *string,
	lastQsoDate *time.Time,
) (*models.Progress, error) {
	goalsJSON, err := json.Marshal(completedGoals)
	if err != nil {
		return nil, err
	}

	row := &models.Progress{
		ID:             uuid.NewString(),
		ChallengeID:    challengeID,
		Callsign:       NormalizeCallsign(callsign),
		CompletedGoals: goalsJSON,
		CurrentValue:   currentValue,
		Score:          score,
		CurrentTier:    currentTier,
		LastQsoDate:    lastQsoDate,
		UpdatedAt:      time.Now().UTC(),
	}

	err = r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "challenge_id"}, {Name: "callsign"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed_goals", "current_value", "score", "current_tier", "last_qso_date", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the conflict path returns the surviving row (original id,
	// replaced fields).
	return r.Get(challengeID, callsign)
}

// Get returns the progress row for (challengeID, callsign), or nil when the
// callsign has not reported yet.
func (r *ProgressRepository) Get(challengeID, callsign string) (*models.Progress, error) {
	var row models.Progress
	err := r.db.
		Where("challenge_id = ? AND callsign = ?", challengeID, NormalizeCallsign(callsign)).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByChallenge returns all progress rows for a challenge in leaderboard
// order: score descending, then updated_at ascending so earlier achievers
// come first on ties.
func (r *ProgressRepository) ListByChallenge(challengeID string) ([]models.Progress, error) {
	var rows []models.Progress
	err := r.db.
		Where("challenge_id = ?", challengeID).
		Order("score DESC, updated_at ASC").
		Find(&rows).Error
	return rows, err
}

// CountByChallenge returns the number of progress rows for a challenge.
func (r *ProgressRepository) CountByChallenge(challengeID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Progress{}).
		Where("challenge_id = ?", challengeID).
		Count(&count).Error
	return count, err
}

// Delete removes the progress row for (challengeID, callsign). Missing rows
// are not an error.
func (r *ProgressRepository) Delete(challengeID, callsign string) error {
	return r.db.
		Where("challenge_id = ? AND callsign = ?", challengeID, NormalizeCallsign(callsign)).
		Delete(&models.Progress{}).Error
}

// DeleteByCallsign removes a callsign's progress rows across all challenges.
func (r *ProgressRepository) DeleteByCallsign(callsign string) error {
	return r.db.Where("callsign = ?", NormalizeCallsign(callsign)).Delete(&models.Progress{}).Error
}
