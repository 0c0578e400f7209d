// Package models defines domain models for the challenges platform.
package models

import (
	"encoding/json"
	"time"
)

// Challenge represents an administrator-defined contest with scoring rules.
// Configuration is a free-form JSON document interpreted per request by the
// scoring package; storage treats it as opaque.
type Challenge struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	Version       int             `gorm:"not null;default:1" json:"version"`
	Name          string          `gorm:"not null;size:255" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Author        *string         `gorm:"size:255" json:"author,omitempty"`
	Category      string          `gorm:"size:100;index" json:"category"`
	ChallengeType string          `gorm:"size:100;index" json:"type"`
	Configuration json.RawMessage `gorm:"type:jsonb;not null" json:"configuration"`
	InviteConfig  json.RawMessage `gorm:"type:jsonb" json:"inviteConfig,omitempty"`
	IsActive      bool            `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for Challenge model.
func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeListItem is a list-view projection with participant counts.
type ChallengeListItem struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	ChallengeType    string `json:"type"`
	ParticipantCount int64  `json:"participantCount"`
	IsActive         bool   `json:"isActive"`
}

// InviteToken represents a shareable invite for joining a challenge.
type InviteToken struct {
	Token       string     `gorm:"primaryKey;size:64" json:"token"`
	ChallengeID string     `gorm:"type:uuid;not null;index" json:"challengeId"`
	MaxUses     *int       `json:"maxUses,omitempty"`
	UseCount    int        `gorm:"not null;default:0" json:"useCount"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TableName specifies the table name for InviteToken model.
func (InviteToken) TableName() string {
	return "invite_tokens"
}

// Exhausted reports whether the invite has no uses left.
func (i *InviteToken) Exhausted() bool {
	return i.MaxUses != nil && i.UseCount >= *i.MaxUses
}

// Expired reports whether the invite expired before now.
func (i *InviteToken) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}
