package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/n0xlf/hamchallenges/internal/models"
)

// ParticipantRepository handles participants and their challenge memberships.
type ParticipantRepository struct {
	db *DB
}

// NewParticipantRepository creates a new participant repository.
func NewParticipantRepository(db *DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// GetOrCreate returns the participant for a callsign, creating it with the
// supplied device token on first contact. The bool reports whether a new
// row was created.
func (r *ParticipantRepository) GetOrCreate(callsign string, deviceName *string, deviceToken string) (*models.Participant, bool, error) {
	normalized := NormalizeCallsign(callsign)

	var participant models.Participant
	err := r.db.Where("callsign = ?", normalized).First(&participant).Error
	if err == nil {
		return &participant, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	now := time.Now().UTC()
	participant = models.Participant{
		ID:          uuid.NewString(),
		Callsign:    normalized,
		DeviceToken: deviceToken,
		DeviceName:  deviceName,
		CreatedAt:   now,
		LastSeenAt:  now,
	}
	if err := r.db.Create(&participant).Error; err != nil {
		return nil, false, err
	}
	return &participant, true, nil
}

// GetByDeviceToken resolves a device token to its participant, or nil when
// the token is unknown.
func (r *ParticipantRepository) GetByDeviceToken(token string) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.Where("device_token = ?", token).First(&participant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &participant, nil
}

// TouchLastSeen bumps last_seen_at for a participant.
func (r *ParticipantRepository) TouchLastSeen(id string) error {
	return r.db.Model(&models.Participant{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now().UTC()).Error
}

// GetParticipation returns the membership row for (challengeID, callsign),
// or nil when the callsign never joined.
func (r *ParticipantRepository) GetParticipation(challengeID, callsign string) (*models.ChallengeParticipant, error) {
	var participation models.ChallengeParticipant
	err := r.db.
		Where("challenge_id = ? AND callsign = ?", challengeID, NormalizeCallsign(callsign)).
		First(&participation).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &participation, nil
}

// Join creates the membership row for (challengeID, callsign). A previous
// "left" membership is revived in place so the unique pair index holds.
func (r *ParticipantRepository) Join(challengeID, callsign string, inviteToken *string) (*models.ChallengeParticipant, error) {
	participation := &models.ChallengeParticipant{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		Callsign:    NormalizeCallsign(callsign),
		InviteToken: inviteToken,
		JoinedAt:    time.Now().UTC(),
		Status:      "active",
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "challenge_id"}, {Name: "callsign"}},
		DoUpdates: clause.AssignmentColumns([]string{"invite_token", "joined_at", "status"}),
	}).Create(participation).Error
	if err != nil {
		return nil, err
	}
	return r.GetParticipation(challengeID, callsign)
}

// Leave marks an active membership as left. Returns false when there was no
// active membership.
func (r *ParticipantRepository) Leave(challengeID, callsign string) (bool, error) {
	res := r.db.Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND callsign = ? AND status = ?", challengeID, NormalizeCallsign(callsign), "active").
		Update("status", "left")
	return res.RowsAffected > 0, res.Error
}

// CountByChallenge returns the number of members in a challenge.
func (r *ParticipantRepository) CountByChallenge(challengeID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ?", challengeID).
		Count(&count).Error
	return count, err
}

// ListParticipations returns a callsign's memberships joined with challenge
// names, newest first.
func (r *ParticipantRepository) ListParticipations(callsign string) ([]ParticipationRow, error) {
	var rows []ParticipationRow
	err := r.db.Model(&models.ChallengeParticipant{}).
		Select(`challenge_participants.id AS participation_id, challenge_participants.challenge_id,
			challenges.name AS challenge_name, challenge_participants.joined_at, challenge_participants.status`).
		Joins("JOIN challenges ON challenges.id = challenge_participants.challenge_id").
		Where("challenge_participants.callsign = ? AND challenge_participants.status = ?", NormalizeCallsign(callsign), "active").
		Order("challenge_participants.joined_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ParticipationRow is one membership joined with its challenge name.
type ParticipationRow struct {
	ParticipationID string    `json:"participationId"`
	ChallengeID     string    `json:"challengeId"`
	ChallengeName   string    `json:"challengeName"`
	JoinedAt        time.Time `json:"joinedAt"`
	Status          string    `json:"status"`
}

// DeleteByCallsign removes a callsign's memberships across all challenges.
func (r *ParticipantRepository) DeleteByCallsign(callsign string) error {
	normalized := NormalizeCallsign(callsign)
	if err := r.db.Where("callsign = ?", normalized).Delete(&models.ChallengeParticipant{}).Error; err != nil {
		return err
	}
	return r.db.Where("callsign = ?", normalized).Delete(&models.Participant{}).Error
}
