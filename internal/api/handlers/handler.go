// Package handlers contains the HTTP handlers for the auth and task routes.
package handlers

import (
	"github.com/go-playground/validator/v10"

	"github.com/JCWilliams12/TaskTrack/internal/repository"
	"github.com/JCWilliams12/TaskTrack/internal/throttle"
	"github.com/JCWilliams12/TaskTrack/internal/token"
)

// Handler bundles the dependencies the routes need. Everything is injected
// at startup; nothing reads ambient globals.
type Handler struct {
	Users         repository.UserStore
	Tasks         repository.TaskStore
	Tokens        *token.Service
	Validate      *validator.Validate
	LoginThrottle *throttle.LoginThrottle // nil disables throttling
}

func New(users repository.UserStore, tasks repository.TaskStore, tokens *token.Service, lt *throttle.LoginThrottle) *Handler {
	return &Handler{
		Users:         users,
		Tasks:         tasks,
		Tokens:        tokens,
		Validate:      validator.New(),
		LoginThrottle: lt,
	}
}
