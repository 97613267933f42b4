package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/geegl/studyhelper/core/recovery"
)

// DefaultListLimit is used by List implementations when limit is not positive.
const DefaultListLimit = 20

var (
	// ErrNotFound is returned by Delete when no entry matches the user and id.
	ErrNotFound = errors.New("studyhelper: history entry not found")
	// ErrMissingID is returned by Save when the entry has no id.
	ErrMissingID = errors.New("studyhelper: history entry has no id")
	// ErrMissingUser is returned when an operation is not scoped to a user.
	ErrMissingUser = errors.New("studyhelper: history user id is empty")
)

// Entry is one solved question.
type Entry struct {
	ID         uuid.UUID           `json:"id"`
	UserID     string              `json:"user_id"`
	Question   string              `json:"question"`
	Answer     recovery.Answer     `json:"answer"`
	Confidence recovery.Confidence `json:"confidence,omitempty"`
	Fallback   bool                `json:"fallback"`
	Model      string              `json:"model,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// NewEntry returns an Entry for userID with a fresh random id and the current
// UTC time.
func NewEntry(userID, question string) Entry {
	return Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Question:  question,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the fields every store requires.
func (e Entry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrMissingID
	}
	if e.UserID == "" {
		return ErrMissingUser
	}
	return nil
}

// Store persists entries per user.
type Store interface {
	// Save inserts the entry. The entry must pass Validate.
	Save(ctx context.Context, entry Entry) error
	// List returns up to limit entries of userID, newest first.
	List(ctx context.Context, userID string, limit int) ([]Entry, error)
	// Delete removes one entry of userID, returning ErrNotFound when absent.
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

// NormalizeLimit maps a non-positive limit to DefaultListLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
