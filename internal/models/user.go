package models

import "time"

// User is the social identity behind a callsign, created lazily the first
// time a callsign touches the friends feature.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Callsign  string    `gorm:"uniqueIndex;not null;size:20" json:"callsign"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// Friend request states.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestDeclined = "declined"
)

// FriendRequest is a pending or resolved request between two users.
type FriendRequest struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID  string     `gorm:"type:uuid;not null;index" json:"fromUserId"`
	FromUser    User       `gorm:"foreignKey:FromUserID" json:"-"`
	ToUserID    string     `gorm:"type:uuid;not null;index" json:"toUserId"`
	ToUser      User       `gorm:"foreignKey:ToUserID" json:"-"`
	Status      string     `gorm:"not null;size:20;default:pending" json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// TableName specifies the table name for FriendRequest model.
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is one direction of an accepted friend pair; acceptance always
// writes both directions in the same transaction.
type Friendship struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_friendship_pair" json:"userId"`
	FriendID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_friendship_pair" json:"friendId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Friendship model.
func (Friendship) TableName() string {
	return "friendships"
}

// FriendInvite is a personal, expiring invite link for befriending a user.
type FriendInvite struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Token        string     `gorm:"uniqueIndex;not null;size:64" json:"token"`
	UserID       string     `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	UsedByUserID *string    `gorm:"type:uuid" json:"usedByUserId,omitempty"`
}

// TableName specifies the table name for FriendInvite model.
func (FriendInvite) TableName() string {
	return "friend_invites"
}
