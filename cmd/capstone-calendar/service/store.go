package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/gcal"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"time"
)

// ProjectStore is the persistence side of capstone projects.
type ProjectStore interface {
	FindProjectByHash(ctx context.Context, hash string) (*model.CapstoneProject, error)
	UpsertProject(ctx context.Context, project *model.CapstoneProject) error
	UpsertProjectEvent(ctx context.Context, event *model.ProjectEvent) error
	UpdateProjectEventSyncStatus(ctx context.Context, eventID string, googleEventID *string, status model.SyncStatus, syncedAt time.Time) (*model.ProjectEvent, error)
	ListProjectsWithEvents(ctx context.Context, userID string) ([]model.CapstoneProject, error)
	GetProject(ctx context.Context, id string) (*model.CapstoneProject, error)
	DeleteProject(ctx context.Context, id string) error
	ListEventsByStage(ctx context.Context, userID string, stage model.Stage) ([]model.ProjectEvent, error)
	ListPendingSync(ctx context.Context, userID string) ([]model.ProjectEvent, error)
}

type EventMappingStore interface {
	ListEventMappings(ctx context.Context, userID string) ([]model.EventMapping, error)
	ListEventMappingsByStatus(ctx context.Context, userID string, status model.SyncStatus) ([]model.EventMapping, error)
	GetEventMapping(ctx context.Context, id string) (*model.EventMapping, error)
	FindEventMappingByHash(ctx context.Context, hash string) (*model.EventMapping, error)
	CreateEventMapping(ctx context.Context, event *model.EventMapping) error
	UpdateEventMapping(ctx context.Context, id string, updates map[string]any, attrs []model.EventAttribute) error
	ReplaceAttributes(ctx context.Context, id string, attrs []model.EventAttribute) error
	DeleteEventMapping(ctx context.Context, id string) error
}

type UserStore interface {
	UpsertGoogleUser(ctx context.Context, user *model.User, cred *model.GoogleCredential) error
	FindUserByID(ctx context.Context, id string) (*model.User, error)
}

// CalendarClientFactory hands out a calendar client acting for one user.
type CalendarClientFactory interface {
	ForUser(ctx context.Context, userID string) (gcal.EventClient, error)
}
