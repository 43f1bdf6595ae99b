// Package access decides whether a session may perform an action.
package access

import (
	"errors"

	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/session"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

type Decision int

const (
	Authorized Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Err maps a decision onto the error a caller should return; nil when authorized.
func (d Decision) Err() error {
	switch d {
	case Authorized:
		return nil
	case Unauthenticated:
		return ErrUnauthenticated
	default:
		return ErrForbidden
	}
}

// Check requires a live session and, when roles are given, that the session
// holds one of them.
func Check(sess *session.Session, roles ...models.UserRole) Decision {
	if sess == nil || sess.ID == "" {
		return Unauthenticated
	}
	if len(roles) == 0 {
		return Authorized
	}
	for _, role := range roles {
		if sess.Role == role {
			return Authorized
		}
	}
	return Forbidden
}
