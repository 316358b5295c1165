package repository

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type EventMappingRepo struct {
	db *gorm.DB
}

func NewEventMappingRepo(db *gorm.DB) *EventMappingRepo {
	return &EventMappingRepo{
		db: db,
	}
}

func (r *EventMappingRepo) ListEventMappings(ctx context.Context, userID string) ([]model.EventMapping, error) {

	var events []model.EventMapping

	result := r.db.
		WithContext(ctx).
		Model(&model.EventMapping{}).
		Preload("Attributes").
		Where("user_id = ?", userID).
		Order("start_time ASC").
		Find(&events)

	if result.Error != nil {
		return nil, mapError(result.Error, "event mappings")
	}

	return events, nil
}

func (r *EventMappingRepo) ListEventMappingsByStatus(ctx context.Context, userID string, status model.SyncStatus) ([]model.EventMapping, error) {

	var events []model.EventMapping

	result := r.db.
		WithContext(ctx).
		Model(&model.EventMapping{}).
		Preload("Attributes").
		Where("user_id = ? AND sync_status = ?", userID, status).
		Order("start_time ASC").
		Find(&events)

	if result.Error != nil {
		return nil, mapError(result.Error, "event mappings")
	}

	return events, nil
}

func (r *EventMappingRepo) GetEventMapping(ctx context.Context, id string) (*model.EventMapping, error) {

	var event model.EventMapping

	result := r.db.
		WithContext(ctx).
		Model(&model.EventMapping{}).
		Preload("Attributes").
		Where("id = ?", id).
		Take(&event)

	if result.Error != nil {
		return nil, mapError(result.Error, "event mapping")
	}

	return &event, nil
}

// FindEventMappingByHash returns nil without error when nothing matches.
func (r *EventMappingRepo) FindEventMappingByHash(ctx context.Context, hash string) (*model.EventMapping, error) {

	var event model.EventMapping

	result := r.db.
		WithContext(ctx).
		Model(&model.EventMapping{}).
		Where("sheet_row_hash = ?", hash).
		Take(&event)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, mapError(result.Error, "event mapping")
	}

	return &event, nil
}

// CreateEventMapping inserts the mapping together with its attributes.
func (r *EventMappingRepo) CreateEventMapping(ctx context.Context, event *model.EventMapping) error {

	if event.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		event.ID = id
	}
	if err := assignAttributeIDs(event.ID, event.Attributes); err != nil {
		return err
	}

	now := time.Now()
	event.CreateDate = now
	event.UpdateDate = now

	result := r.db.
		WithContext(ctx).
		Create(event)

	return mapError(result.Error, "event mapping")
}

// UpdateEventMapping applies updates to the row. A non-nil attrs replaces
// the attribute list in the same transaction.
func (r *EventMappingRepo) UpdateEventMapping(ctx context.Context, id string, updates map[string]any, attrs []model.EventAttribute) error {

	return r.db.
		WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			updates["update_date"] = time.Now()

			result := tx.
				Model(&model.EventMapping{}).
				Where("id = ?", id).
				Updates(updates)

			if result.Error != nil {
				return mapError(result.Error, "event mapping")
			}
			if result.RowsAffected == 0 {
				return apperr.NotFound("event mapping not found")
			}

			if attrs == nil {
				return nil
			}
			return replaceAttributes(tx, id, attrs)
		})
}

// ReplaceAttributes deletes every attribute of the mapping and recreates
// the given list.
func (r *EventMappingRepo) ReplaceAttributes(ctx context.Context, id string, attrs []model.EventAttribute) error {

	return r.db.
		WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			return replaceAttributes(tx, id, attrs)
		})
}

func replaceAttributes(tx *gorm.DB, id string, attrs []model.EventAttribute) error {

	result := tx.
		Where("event_mapping_id = ?", id).
		Delete(&model.EventAttribute{})

	if result.Error != nil {
		return mapError(result.Error, "event attributes")
	}

	if len(attrs) == 0 {
		return nil
	}
	if err := assignAttributeIDs(id, attrs); err != nil {
		return err
	}

	result = tx.Create(&attrs)
	return mapError(result.Error, "event attributes")
}

func (r *EventMappingRepo) DeleteEventMapping(ctx context.Context, id string) error {

	result := r.db.
		WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.EventMapping{})

	if result.Error != nil {
		return mapError(result.Error, "event mapping")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("event mapping not found")
	}

	return nil
}

func assignAttributeIDs(mappingID string, attrs []model.EventAttribute) error {
	for i := range attrs {
		attrs[i].EventMappingID = mappingID
		if attrs[i].ID != "" {
			continue
		}
		id, err := newID()
		if err != nil {
			return err
		}
		attrs[i].ID = id
	}
	return nil
}
