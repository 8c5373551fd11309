package domain

import "github.com/google/uuid"

// UserID identifies an authenticated admin allowed to read submissions.
// It wraps uuid.UUID to provide type safety at the domain layer.
type UserID uuid.UUID
