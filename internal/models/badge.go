package models

import "time"

// Badge is a per-challenge achievement image, optionally bound to a tier.
// Image bytes live in the row; list views use the metadata projection so the
// blob never rides along.
type Badge struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID string    `gorm:"type:uuid;not null;index" json:"challengeId"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	TierID      *string   `gorm:"size:100" json:"tierId,omitempty"`
	ImageData   []byte    `gorm:"type:bytea" json:"-"`
	ContentType string    `gorm:"not null;size:100" json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName specifies the table name for Badge model.
func (Badge) TableName() string {
	return "badges"
}

// BadgeMetadata is a Badge without the image payload.
type BadgeMetadata struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challengeId"`
	Name        string    `json:"name"`
	TierID      *string   `json:"tierId,omitempty"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}
