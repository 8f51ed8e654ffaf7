package dto

import (
	"time"

	"github.com/google/uuid"
)

type TopicKeywordResponse struct {
	Id               uuid.UUID `json:"id"`
	Label            string    `json:"label"`
	ImportanceWeight float64   `json:"importance_weight"`
	IsCore           bool      `json:"is_core"`
	SemanticCategory string    `json:"semantic_category,omitempty"`
	Status           string    `json:"status"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

type CreateTopicKeywordRequest struct {
	Label  string `json:"label" validate:"required"`
	Status string `json:"status,omitempty"`
}

type UpdateTopicKeywordRequest struct {
	Id     uuid.UUID `json:"-"`
	Label  string    `json:"label" validate:"required"`
	Status string    `json:"status,omitempty"`
}

type ScopeElementResponse struct {
	Id           uuid.UUID `json:"id"`
	Label        string    `json:"label"`
	BoundaryType string    `json:"boundary_type"`
	Rationale    string    `json:"rationale"`
	Status       string    `json:"status"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type CreateScopeElementRequest struct {
	Label        string `json:"label" validate:"required"`
	Rationale    string `json:"rationale" validate:"required"`
	BoundaryType string `json:"boundary_type,omitempty"`
	Status       string `json:"status,omitempty"`
}

type UpdateScopeElementRequest struct {
	Id           uuid.UUID `json:"-"`
	Label        string    `json:"label" validate:"required"`
	Rationale    string    `json:"rationale" validate:"required"`
	BoundaryType string    `json:"boundary_type,omitempty"`
	Status       string    `json:"status,omitempty"`
}

type ReflectionLogResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateReflectionLogRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Status  string `json:"status,omitempty"`
}

type UpdateReflectionLogRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string    `json:"title" validate:"required"`
	Content string    `json:"content" validate:"required"`
	Status  string    `json:"status,omitempty"`
}
