package ports

import "context"

// LoginThrottle bounds failed login attempts per username.
type LoginThrottle interface {
	// Check records an attempt and returns domain.ErrTooManyAttempts once the
	// limit for the current window is exceeded.
	Check(ctx context.Context, username string) error
	// Reset clears the attempt counter after a successful login.
	Reset(ctx context.Context, username string) error
}
