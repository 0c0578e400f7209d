// Package auth provides device-token issuance and the gin middleware that
// resolves tokens to callsigns.
package auth

import (
	"crypto/rand"
	"math/big"
)

const (
	tokenPrefix = "fd_"
	tokenLength = 32
	tokenChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateDeviceToken returns a new opaque device token: "fd_" followed by
// 32 random alphanumerics.
func GenerateDeviceToken() string {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenChars)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; nothing
			// sensible to return.
			panic(err)
		}
		buf[i] = tokenChars[n.Int64()]
	}
	return tokenPrefix + string(buf)
}

// IsValidTokenFormat checks the shape of a device token without touching
// storage.
func IsValidTokenFormat(token string) bool {
	if len(token) != len(tokenPrefix)+tokenLength {
		return false
	}
	if token[:len(tokenPrefix)] != tokenPrefix {
		return false
	}
	for _, c := range token[len(tokenPrefix):] {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

const inviteChars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateInviteToken returns a random token for invite links: "inv_"
// followed by 24 lowercase alphanumerics.
func GenerateInviteToken() string {
	buf := make([]byte, 24)
	max := big.NewInt(int64(len(inviteChars)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = inviteChars[n.Int64()]
	}
	return "inv_" + string(buf)
}
