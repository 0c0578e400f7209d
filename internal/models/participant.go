package models

import "time"

// Participant is a device-holding operator identified by callsign.
type Participant struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Callsign    string    `gorm:"uniqueIndex;not null;size:20" json:"callsign"`
	DeviceToken string    `gorm:"uniqueIndex;not null;size:40" json:"-"`
	DeviceName  *string   `gorm:"size:255" json:"deviceName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// TableName specifies the table name for Participant model.
func (Participant) TableName() string {
	return "participants"
}

// ChallengeParticipant is one callsign's membership in one challenge.
type ChallengeParticipant struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"participationId"`
	ChallengeID string    `gorm:"type:uuid;not null;uniqueIndex:idx_participation_challenge_callsign" json:"challengeId"`
	Callsign    string    `gorm:"not null;size:20;uniqueIndex:idx_participation_challenge_callsign" json:"callsign"`
	InviteToken *string   `gorm:"size:64" json:"-"`
	JoinedAt    time.Time `json:"joinedAt"`
	Status      string    `gorm:"not null;size:20;default:active" json:"status"`
}

// TableName specifies the table name for ChallengeParticipant model.
func (ChallengeParticipant) TableName() string {
	return "challenge_participants"
}
