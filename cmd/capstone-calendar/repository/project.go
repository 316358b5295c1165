package repository

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{
		db: db,
	}
}

// FindProjectByHash returns nil without error when no project has the hash.
func (r *ProjectRepo) FindProjectByHash(ctx context.Context, hash string) (*model.CapstoneProject, error) {

	var project model.CapstoneProject

	result := r.db.
		WithContext(ctx).
		Model(&model.CapstoneProject{}).
		Where("sheet_row_hash = ?", hash).
		Take(&project)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, mapError(result.Error, "project")
	}

	return &project, nil
}

var projectUpsertColumns = []string{
	"sheet_id",
	"tab_name",
	"row_number",
	"topic_code",
	"group_code",
	"topic_name_en",
	"topic_name_vi",
	"mentor",
	"mentor1",
	"mentor2",
	"update_date",
}

// UpsertProject inserts the project or, when its sheet_row_hash exists,
// refreshes the static fields in place. Ownership and create_date are never
// overwritten. project is filled from the stored row.
func (r *ProjectRepo) UpsertProject(ctx context.Context, project *model.CapstoneProject) error {

	now := time.Now()
	if project.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		project.ID = id
		project.CreateDate = now
	}
	project.UpdateDate = now

	result := r.db.
		WithContext(ctx).
		Omit(clause.Associations).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "sheet_row_hash"}},
				DoUpdates: clause.AssignmentColumns(projectUpsertColumns),
			},
			clause.Returning{},
		).
		Create(project)

	return mapError(result.Error, "project")
}

var eventUpsertColumns = []string{
	"council_code",
	"reviewer1",
	"reviewer2",
	"date",
	"slot",
	"room",
	"conflict",
	"conflict_supervisor",
	"match_review2",
	"conflict1",
	"conflict2",
	"reviewer_check",
	"defense_list",
	"group_count",
	"state",
	"review3_supervisor_diff",
	"supervisor_defense1_diff",
	"result",
	"count",
	"update_date",
}

// UpsertProjectEvent writes the stage data of event keyed by (project_id,
// stage). Sync columns are left to UpdateProjectEventSyncStatus.
func (r *ProjectRepo) UpsertProjectEvent(ctx context.Context, event *model.ProjectEvent) error {

	now := time.Now()
	if event.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		event.ID = id
		event.CreateDate = now
	}
	event.UpdateDate = now

	result := r.db.
		WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "project_id"}, {Name: "stage"}},
				DoUpdates: clause.AssignmentColumns(eventUpsertColumns),
			},
			clause.Returning{},
		).
		Create(event)

	return mapError(result.Error, "project event")
}

// UpdateProjectEventSyncStatus records the outcome of a calendar push.
// googleEventID is stored as given, nil clears it.
func (r *ProjectRepo) UpdateProjectEventSyncStatus(
	ctx context.Context,
	eventID string,
	googleEventID *string,
	status model.SyncStatus,
	syncedAt time.Time,
) (*model.ProjectEvent, error) {

	event := model.ProjectEvent{ID: eventID}

	result := r.db.
		WithContext(ctx).
		Model(&event).
		Clauses(clause.Returning{}).
		Updates(map[string]any{
			"google_event_id": googleEventID,
			"sync_status":     status,
			"last_synced_at":  syncedAt,
			"update_date":     syncedAt,
		})

	if result.Error != nil {
		return nil, mapError(result.Error, "project event")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("project event not found")
	}

	return &event, nil
}

func preloadEventsByDate(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC")
}

// ListProjectsWithEvents returns the user's projects, newest first, each
// with its events ordered by date.
func (r *ProjectRepo) ListProjectsWithEvents(ctx context.Context, userID string) ([]model.CapstoneProject, error) {

	var projects []model.CapstoneProject

	result := r.db.
		WithContext(ctx).
		Model(&model.CapstoneProject{}).
		Preload("Events", preloadEventsByDate).
		Where("user_id = ?", userID).
		Order("create_date DESC").
		Find(&projects)

	if result.Error != nil {
		return nil, mapError(result.Error, "projects")
	}

	return projects, nil
}

func (r *ProjectRepo) GetProject(ctx context.Context, id string) (*model.CapstoneProject, error) {

	var project model.CapstoneProject

	result := r.db.
		WithContext(ctx).
		Model(&model.CapstoneProject{}).
		Preload("Events", preloadEventsByDate).
		Where("id = ?", id).
		Take(&project)

	if result.Error != nil {
		return nil, mapError(result.Error, "project")
	}

	project.SortEvents()
	return &project, nil
}

// DeleteProject removes the project; its events go with it through the
// foreign key cascade.
func (r *ProjectRepo) DeleteProject(ctx context.Context, id string) error {

	result := r.db.
		WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CapstoneProject{})

	if result.Error != nil {
		return mapError(result.Error, "project")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("project not found")
	}

	return nil
}

func (r *ProjectRepo) ownedEvents(ctx context.Context, userID string) *gorm.DB {
	return r.db.
		WithContext(ctx).
		Model(&model.ProjectEvent{}).
		Joins("JOIN capstone_projects ON capstone_projects.id = project_events.project_id").
		Where("capstone_projects.user_id = ?", userID)
}

// ListEventsByStage returns the user's events for one stage ordered by date.
func (r *ProjectRepo) ListEventsByStage(ctx context.Context, userID string, stage model.Stage) ([]model.ProjectEvent, error) {

	var events []model.ProjectEvent

	result := r.ownedEvents(ctx, userID).
		Where("project_events.stage = ?", stage).
		Order("project_events.date ASC").
		Find(&events)

	if result.Error != nil {
		return nil, mapError(result.Error, "project events")
	}

	return events, nil
}

// ListPendingSync returns the user's events that carry date, slot and room
// and either were never pushed or failed their last push.
func (r *ProjectRepo) ListPendingSync(ctx context.Context, userID string) ([]model.ProjectEvent, error) {

	var events []model.ProjectEvent

	result := r.ownedEvents(ctx, userID).
		Where("project_events.date IS NOT NULL").
		Where("project_events.slot IS NOT NULL AND project_events.slot <> ''").
		Where("project_events.room IS NOT NULL AND project_events.room <> ''").
		Where(
			r.db.
				Where("project_events.google_event_id IS NULL").
				Or("project_events.sync_status = ?", model.SyncFailed),
		).
		Order("project_events.date ASC").
		Order("project_events.stage ASC").
		Find(&events)

	if result.Error != nil {
		return nil, mapError(result.Error, "project events")
	}

	return events, nil
}
