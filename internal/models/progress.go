package models

import (
	"encoding/json"
	"time"
)

// Progress holds the latest reported achievement state for one callsign in
// one challenge. Callsign is stored upper-cased; the (challenge, callsign)
// pair is unique. Score and CurrentTier are derived at write time from the
// challenge configuration current at that moment.
type Progress struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID    string          `gorm:"type:uuid;not null;uniqueIndex:idx_progress_challenge_callsign" json:"challengeId"`
	Callsign       string          `gorm:"not null;size:20;uniqueIndex:idx_progress_challenge_callsign" json:"callsign"`
	CompletedGoals json.RawMessage `gorm:"type:jsonb;not null" json:"completedGoals"`
	CurrentValue   int             `gorm:"not null;default:0" json:"currentValue"`
	Score          int             `gorm:"not null;default:0;index" json:"score"`
	CurrentTier    *string         `gorm:"size:100" json:"currentTier,omitempty"`
	LastQsoDate    *time.Time      `json:"lastQsoDate,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for Progress model.
func (Progress) TableName() string {
	return "progress"
}

// CompletedGoalIDs decodes the stored goal list. Malformed or missing JSON
// decodes to an empty list, mirroring the permissive configuration handling.
func (p *Progress) CompletedGoalIDs() []string {
	var goals []string
	if err := json.Unmarshal(p.CompletedGoals, &goals); err != nil {
		return []string{}
	}
	if goals == nil {
		goals = []string{}
	}
	return goals
}
