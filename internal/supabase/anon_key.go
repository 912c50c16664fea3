package supabase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const anonRole = "anon"

// KeyInfo is what can be read from a JWT-shaped anon key.
type KeyInfo struct {
	Role      string
	Ref       string
	ExpiresAt time.Time
}

// IsAnon reports whether the key carries the low-privilege anon role.
func (k KeyInfo) IsAnon() bool { return k.Role == anonRole }

// Expired reports whether the key expired before now.
func (k KeyInfo) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && now.After(k.ExpiresAt)
}

type keyClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	Ref  string `json:"ref"`
}

var errNotJWT = errors.New("anon key is not a JWT")

// InspectAnonKey decodes the claims of a JWT anon key without verifying its
// signature (the secret lives with the backend). Publishable keys that are not
// JWTs return an error wrapping errNotJWT; callers treat that as "nothing to check".
func InspectAnonKey(key string) (KeyInfo, error) {
	claims := &keyClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyInfo{}, errors.Join(errNotJWT, err)
	}
	info := KeyInfo{Role: claims.Role, Ref: claims.Ref}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return info, nil
}

// IsNotJWT reports whether InspectAnonKey failed only because the key is opaque.
func IsNotJWT(err error) bool { return errors.Is(err, errNotJWT) }
