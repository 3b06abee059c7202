package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/JCWilliams12/TaskTrack/internal/models"
)

// In-memory stores with the same contract as the Mongo ones. Used by handler
// tests so they run without a database.

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, username, email, secret string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, ErrDuplicateUser
		}
	}
	hash, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[oid]; ok {
		user := u
		return &user, nil
	}
	return nil, ErrUserNotFound
}

// Delete removes a user. Not part of UserStore; exists so tests can exercise
// tokens whose subject no longer resolves.
func (s *MemoryUserStore) Delete(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type MemoryTaskStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]models.Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (s *MemoryTaskStore) List(_ context.Context, ownerID string, f ListFilter) ([]models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.UserID != owner {
			continue
		}
		if models.ValidStatus(f.Status) && t.Status != f.Status {
			continue
		}
		if models.ValidPriority(f.Priority) && t.Priority != f.Priority {
			continue
		}
		tasks = append(tasks, t)
	}

	field := f.SortBy
	if _, ok := sortFields[field]; !ok {
		field = "createdAt"
	}
	asc := f.SortOrder == "asc"
	sort.Slice(tasks, func(i, j int) bool {
		less := lessTask(tasks[i], tasks[j], field)
		if asc {
			return less
		}
		return lessTask(tasks[j], tasks[i], field)
	})
	return tasks, nil
}

func lessTask(a, b models.Task, field string) bool {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title) < 0
	case "priority":
		return strings.Compare(a.Priority, b.Priority) < 0
	case "dueDate":
		if a.DueDate == nil {
			return b.DueDate != nil
		}
		if b.DueDate == nil {
			return false
		}
		return a.DueDate.Before(*b.DueDate)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (s *MemoryTaskStore) Get(_ context.Context, ownerID, taskID string) (*models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[oid]; ok && t.UserID == owner {
		task := t
		return &task, nil
	}
	return nil, ErrTaskNotFound
}

func (s *MemoryTaskStore) Create(_ context.Context, ownerID string, task models.Task) (*models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	applyTaskDefaults(&task)
	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.UserID = owner
	task.CreatedAt = now
	task.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *MemoryTaskStore) Update(_ context.Context, ownerID, taskID string, u TaskUpdate) (*models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[oid]
	if !ok || task.UserID != owner {
		return nil, ErrTaskNotFound
	}

	if u.Title != nil {
		task.Title = *u.Title
	}
	if u.Description != nil {
		task.Description = *u.Description
	}
	if u.Status != nil {
		task.Status = *u.Status
	}
	if u.Priority != nil {
		task.Priority = *u.Priority
	}
	if u.ClearDueDate {
		task.DueDate = nil
	} else if u.DueDate != nil {
		due := *u.DueDate
		task.DueDate = &due
	}
	task.UpdatedAt = time.Now().UTC()

	s.tasks[oid] = task
	return &task, nil
}

func (s *MemoryTaskStore) Delete(_ context.Context, ownerID, taskID string) error {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return ErrTaskNotFound
	}
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return ErrTaskNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[oid]; ok && t.UserID == owner {
		delete(s.tasks, oid)
		return nil
	}
	return ErrTaskNotFound
}

func (s *MemoryTaskStore) Stats(_ context.Context, ownerID string) (*models.TaskStats, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := newStats()
	for _, t := range s.tasks {
		if t.UserID != owner {
			continue
		}
		stats.TotalTasks++
		stats.StatusBreakdown[t.Status]++
		stats.PriorityBreakdown[t.Priority]++
	}
	stats.CompletionRate = completionRate(stats.StatusBreakdown[models.StatusCompleted], stats.TotalTasks)
	return stats, nil
}
