package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"capstone-calendar-backend/cmd/capstone-calendar/parser"
	"context"
	"fmt"
	"time"
)

// Reconciler merges a parsed row into stored projects and stage events.
type Reconciler struct {
	store ProjectStore
}

func NewReconciler(store ProjectStore) *Reconciler {
	return &Reconciler{
		store: store,
	}
}

// UpsertCapstoneProject stores the project under its content hash and
// upserts one event per parsed stage. Stages missing from parsed are left
// as they are. A project with the same hash owned by another user is
// rejected as Unauthorized.
func (r *Reconciler) UpsertCapstoneProject(
	ctx context.Context,
	userID string,
	coord model.SheetCoordinate,
	parsed parser.ParsedCapstoneProject,
) (*model.CapstoneProject, []model.ProjectEvent, error) {

	if err := checkStages(parsed.Events); err != nil {
		return nil, nil, err
	}

	hash := ProjectHash(coord.SheetID, coord.TabName, coord.RowNumber, parsed)

	existing, err := r.store.FindProjectByHash(ctx, hash)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil && existing.UserID != userID {
		return nil, nil, apperr.Unauthorized("project belongs to another user")
	}

	project := &model.CapstoneProject{
		UserID:       userID,
		SheetID:      coord.SheetID,
		TabName:      coord.TabName,
		RowNumber:    coord.RowNumber,
		SheetRowHash: hash,
		TopicCode:    parsed.TopicCode,
		GroupCode:    parsed.GroupCode,
		TopicNameEn:  parsed.TopicNameEn,
		TopicNameVi:  parsed.TopicNameVi,
		Mentor:       parsed.Mentor,
		Mentor1:      parsed.Mentor1,
		Mentor2:      parsed.Mentor2,
	}
	if existing != nil {
		project.ID = existing.ID
		project.CreateDate = existing.CreateDate
	}

	if err := r.store.UpsertProject(ctx, project); err != nil {
		return nil, nil, err
	}

	events := make([]model.ProjectEvent, 0, len(parsed.Events))
	for _, pe := range parsed.Events {
		event := toProjectEvent(project.ID, pe)
		if err := r.store.UpsertProjectEvent(ctx, &event); err != nil {
			return nil, nil, fmt.Errorf("upsert %s event: %w", pe.Stage, err)
		}
		events = append(events, event)
	}

	project.Events = events
	return project, events, nil
}

func checkStages(events []parser.ParsedProjectEvent) error {
	seen := make(map[model.Stage]bool, len(events))
	for _, e := range events {
		if !e.Stage.Valid() {
			return apperr.Validation(fmt.Sprintf("unknown stage %q", e.Stage))
		}
		if seen[e.Stage] {
			return apperr.Conflict(fmt.Sprintf("stage %s appears twice", e.Stage), nil)
		}
		seen[e.Stage] = true
	}
	return nil
}

func toProjectEvent(projectID string, e parser.ParsedProjectEvent) model.ProjectEvent {
	event := model.ProjectEvent{
		ProjectID:              projectID,
		Stage:                  e.Stage,
		CouncilCode:            e.CouncilCode,
		Reviewer1:              e.Reviewer1,
		Reviewer2:              e.Reviewer2,
		Slot:                   e.Slot,
		Room:                   e.Room,
		Conflict:               e.Conflict,
		ConflictSupervisor:     e.ConflictSupervisor,
		MatchReview2:           e.MatchReview2,
		Conflict1:              e.Conflict1,
		Conflict2:              e.Conflict2,
		ReviewerCheck:          e.ReviewerCheck,
		DefenseList:            e.DefenseList,
		GroupCount:             e.GroupCount,
		State:                  e.State,
		Review3SupervisorDiff:  e.Review3SupervisorDiff,
		SupervisorDefense1Diff: e.SupervisorDefense1Diff,
		Result:                 e.Result,
		Count:                  e.Count,
	}

	if e.Date != nil {
		if d, err := time.Parse(time.DateOnly, *e.Date); err == nil {
			event.Date = &d
		}
	}

	return event
}
