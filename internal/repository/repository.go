// Package repository holds the identity-scoped persistence layer: user and
// task stores backed by MongoDB, plus in-memory variants used in tests.
package repository

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/JCWilliams12/TaskTrack/internal/models"
)

var (
	ErrDuplicateUser = errors.New("username or email already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrTaskNotFound  = errors.New("task not found")
)

// hashCost is the fixed bcrypt cost for stored secrets.
const hashCost = 10

type UserStore interface {
	// Create hashes the secret and persists the user. The email must already
	// be normalized by the caller.
	Create(ctx context.Context, username, email, secret string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ListFilter carries the optional task list parameters. Values that are not
// one of the enumerated options are ignored, not rejected.
type ListFilter struct {
	Status    string
	Priority  string
	SortBy    string
	SortOrder string
}

// TaskUpdate carries a partial task mutation. Nil fields are untouched;
// ClearDueDate removes the due date and wins over DueDate.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
}

// TaskStore operations all take the owner id as a scoping parameter; a task
// owned by someone else behaves exactly like a missing one.
type TaskStore interface {
	List(ctx context.Context, ownerID string, filter ListFilter) ([]models.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	Create(ctx context.Context, ownerID string, task models.Task) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, update TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
	Stats(ctx context.Context, ownerID string) (*models.TaskStats, error)
}

// HashSecret produces a salted bcrypt hash of the plaintext secret. bcrypt
// generates a fresh salt on every call.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifySecret reports whether candidate matches the stored hash. The timing
// characteristics of the comparison are bcrypt's own.
func VerifySecret(user *models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// applyTaskDefaults fills the status and priority defaults on creation.
func applyTaskDefaults(task *models.Task) {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
}

// newStats returns a zero-filled stats object so every enum value appears in
// the breakdowns.
func newStats() *models.TaskStats {
	return &models.TaskStats{
		StatusBreakdown: map[string]int{
			models.StatusPending:    0,
			models.StatusInProgress: 0,
			models.StatusCompleted:  0,
		},
		PriorityBreakdown: map[string]int{
			models.PriorityLow:    0,
			models.PriorityMedium: 0,
			models.PriorityHigh:   0,
		},
	}
}

// completionRate is round(completed/total*100), with an explicit guard for
// the empty account.
func completionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}
