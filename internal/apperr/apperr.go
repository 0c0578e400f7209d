// Package apperr defines the application error taxonomy shared by services
// and HTTP handlers. Each error carries a stable machine code and the HTTP
// status it maps to; handlers translate them into the wire format in one
// place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed application error.
type Error struct {
	Code    string                 `json:"code"`
	Status  int                    `json:"-"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// ChallengeNotFound indicates the challenge id does not exist.
func ChallengeNotFound(challengeID string) *Error {
	return &Error{
		Code:    "CHALLENGE_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "Challenge not found",
		Details: map[string]interface{}{"challengeId": challengeID},
	}
}

// BadgeNotFound indicates the badge id does not exist.
func BadgeNotFound(badgeID string) *Error {
	return &Error{
		Code:    "BADGE_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "Badge not found",
		Details: map[string]interface{}{"badgeId": badgeID},
	}
}

// InviteNotFound indicates the invite token does not exist.
func InviteNotFound(token string) *Error {
	return &Error{
		Code:    "INVITE_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "Invite not found",
		Details: map[string]interface{}{"token": token},
	}
}

// UserNotFound indicates the user id does not exist.
func UserNotFound(userID string) *Error {
	return &Error{
		Code:    "USER_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "User not found",
		Details: map[string]interface{}{"userId": userID},
	}
}

// FriendRequestNotFound indicates the request id is unknown, resolved, or
// not addressed to the caller.
func FriendRequestNotFound(requestID string) *Error {
	return &Error{
		Code:    "FRIEND_REQUEST_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "Friend request not found",
		Details: map[string]interface{}{"requestId": requestID},
	}
}

// FriendInviteNotFound indicates the friend invite token is unknown,
// expired, or already used.
func FriendInviteNotFound(token string) *Error {
	return &Error{
		Code:    "FRIEND_INVITE_NOT_FOUND",
		Status:  http.StatusNotFound,
		Message: "Friend invite not found",
		Details: map[string]interface{}{"token": token},
	}
}

// Sentinel errors without request-specific details.
var (
	ErrAlreadyJoined       = &Error{Code: "ALREADY_JOINED", Status: http.StatusConflict, Message: "Already joined this challenge"}
	ErrNotParticipating    = &Error{Code: "NOT_PARTICIPATING", Status: http.StatusForbidden, Message: "Not participating in this challenge"}
	ErrInviteRequired      = &Error{Code: "INVITE_REQUIRED", Status: http.StatusForbidden, Message: "Invite token required"}
	ErrInviteExpired       = &Error{Code: "INVITE_EXPIRED", Status: http.StatusForbidden, Message: "Invite token expired"}
	ErrInviteExhausted     = &Error{Code: "INVITE_EXHAUSTED", Status: http.StatusForbidden, Message: "Invite token exhausted"}
	ErrMaxParticipants     = &Error{Code: "MAX_PARTICIPANTS", Status: http.StatusForbidden, Message: "Challenge at maximum participants"}
	ErrChallengeEnded      = &Error{Code: "CHALLENGE_ENDED", Status: http.StatusBadRequest, Message: "Challenge has ended"}
	ErrInvalidToken        = &Error{Code: "INVALID_TOKEN", Status: http.StatusUnauthorized, Message: "Invalid or revoked token"}
	ErrRateLimited         = &Error{Code: "RATE_LIMITED", Status: http.StatusTooManyRequests, Message: "Rate limit exceeded"}
	ErrCannotFriendSelf    = &Error{Code: "CANNOT_FRIEND_SELF", Status: http.StatusBadRequest, Message: "Cannot send a friend request to yourself"}
	ErrAlreadyFriends      = &Error{Code: "ALREADY_FRIENDS", Status: http.StatusConflict, Message: "Already friends"}
	ErrFriendRequestExists = &Error{Code: "FRIEND_REQUEST_EXISTS", Status: http.StatusConflict, Message: "A pending friend request already exists"}
)

// Validation builds a bad-request error with a caller-supplied message.
func Validation(message string) *Error {
	return &Error{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: message}
}

// Internal wraps an unexpected failure (storage and the like) as a generic
// internal error. The cause stays available for logging via Unwrap.
func Internal(cause error) *Error {
	return &Error{
		Code:    "INTERNAL_ERROR",
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		cause:   cause,
	}
}

// From extracts an *Error, wrapping anything else as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
