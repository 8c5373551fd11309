// Package notifier defines how stored contact submissions are announced to
// the outside world and the data types shared by notifier implementations.
package notifier

import (
	"context"
	"time"
)

// RateLimitStatus is the rate-limit state the receiving endpoint reported.
// A zero ResetAt means the endpoint reported nothing.
type RateLimitStatus struct {
	Limit     int       // Limit is the total number of allowed requests in the current window.
	Remaining int       // Remaining indicates how many requests are left in the current window.
	ResetAt   time.Time // ResetAt is when the rate-limit window resets.
}

// Notification is the payload delivered for one submission.
type Notification struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Client delivers notifications.
//
//go:generate mockgen -package mocknotifier -source=notifier.go -destination=mock/mocknotifier.go *
type Client interface {
	// Notify delivers n and returns the rate-limit status reported by the
	// receiver alongside any error.
	Notify(ctx context.Context, n Notification) (RateLimitStatus, error)
}
