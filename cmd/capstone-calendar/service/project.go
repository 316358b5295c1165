package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"fmt"
)

// ProjectService serves stored projects to their owner.
type ProjectService struct {
	store ProjectStore
}

func NewProjectService(store ProjectStore) *ProjectService {
	return &ProjectService{
		store: store,
	}
}

func (s *ProjectService) ListProjects(ctx context.Context, userID string) ([]model.CapstoneProject, error) {
	projects, err := s.store.ListProjectsWithEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].SortEvents()
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, userID, id string) (*model.CapstoneProject, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, apperr.Unauthorized("project belongs to another user")
	}
	return project, nil
}

func (s *ProjectService) ListProjectEvents(ctx context.Context, userID, id string) ([]model.ProjectEvent, error) {
	project, err := s.GetProject(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return project.Events, nil
}

func (s *ProjectService) ListEventsByStage(ctx context.Context, userID string, stage model.Stage) ([]model.ProjectEvent, error) {
	if !stage.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown stage %q", stage))
	}
	return s.store.ListEventsByStage(ctx, userID, stage)
}

func (s *ProjectService) DeleteProject(ctx context.Context, userID, id string) error {
	if _, err := s.GetProject(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteProject(ctx, id)
}
