package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"fmt"
	"time"
)

type EventMappingService struct {
	store EventMappingStore
	now   func() time.Time
}

func NewEventMappingService(store EventMappingStore) *EventMappingService {
	return &EventMappingService{
		store: store,
		now:   time.Now,
	}
}

func toAttributes(in []model.EventAttributeInput) []model.EventAttribute {
	attrs := make([]model.EventAttribute, 0, len(in))
	for _, a := range in {
		attrs = append(attrs, model.EventAttribute{
			Key:   a.Key,
			Value: a.Value,
			Role:  a.Role,
		})
	}
	return attrs
}

// UpsertEventMapping creates the mapping or, when one with the same hash
// exists, rewrites its title, times and attributes.
func (s *EventMappingService) UpsertEventMapping(ctx context.Context, userID string, req model.EventMappingCreateRequest) (*model.EventMapping, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, apperr.Validation("endTime must be after startTime")
	}

	hash := EventMappingHash(req.SheetID, req.TabName, req.RowNumber, req.Title, req.StartTime, req.EndTime)

	existing, err := s.store.FindEventMappingByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.UserID != userID {
			return nil, apperr.Unauthorized("event belongs to another user")
		}
		updates := map[string]any{
			"title":      req.Title,
			"start_time": req.StartTime,
			"end_time":   req.EndTime,
		}
		if err := s.store.UpdateEventMapping(ctx, existing.ID, updates, nil); err != nil {
			return nil, err
		}
		if err := s.store.ReplaceAttributes(ctx, existing.ID, toAttributes(req.Attributes)); err != nil {
			return nil, err
		}
		return s.store.GetEventMapping(ctx, existing.ID)
	}

	event := &model.EventMapping{
		UserID:       userID,
		SheetID:      req.SheetID,
		TabName:      req.TabName,
		RowNumber:    req.RowNumber,
		SheetRowHash: hash,
		Title:        req.Title,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SyncStatus:   model.SyncPending,
		Attributes:   toAttributes(req.Attributes),
	}
	if err := s.store.CreateEventMapping(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventMappingService) ListEventMappings(ctx context.Context, userID string) ([]model.EventMapping, error) {
	return s.store.ListEventMappings(ctx, userID)
}

func (s *EventMappingService) ListEventMappingsByStatus(ctx context.Context, userID string, status model.SyncStatus) ([]model.EventMapping, error) {
	if !status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown sync status %q", status))
	}
	return s.store.ListEventMappingsByStatus(ctx, userID, status)
}

func (s *EventMappingService) GetEventMapping(ctx context.Context, userID, id string) (*model.EventMapping, error) {
	event, err := s.store.GetEventMapping(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, apperr.Unauthorized("event belongs to another user")
	}
	return event, nil
}

// UpdateEventMapping applies the fields present in req. Attributes, when
// given, replace the stored set.
func (s *EventMappingService) UpdateEventMapping(ctx context.Context, userID, id string, req model.EventMappingUpdateRequest) (*model.EventMapping, error) {
	current, err := s.GetEventMapping(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	start, end := current.StartTime, current.EndTime
	updates := map[string]any{
		"last_synced_at": s.now(),
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.StartTime != nil {
		start = *req.StartTime
		updates["start_time"] = start
	}
	if req.EndTime != nil {
		end = *req.EndTime
		updates["end_time"] = end
	}
	if req.GoogleEventID != nil {
		updates["google_event_id"] = *req.GoogleEventID
	}
	if req.SyncStatus != nil {
		if !req.SyncStatus.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("unknown sync status %q", *req.SyncStatus))
		}
		updates["sync_status"] = *req.SyncStatus
	}
	if !end.After(start) {
		return nil, apperr.Validation("endTime must be after startTime")
	}

	var attrs []model.EventAttribute
	if req.Attributes != nil {
		attrs = toAttributes(req.Attributes)
	}

	if err := s.store.UpdateEventMapping(ctx, id, updates, attrs); err != nil {
		return nil, err
	}
	return s.store.GetEventMapping(ctx, id)
}

func (s *EventMappingService) DeleteEventMapping(ctx context.Context, userID, id string) error {
	if _, err := s.GetEventMapping(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteEventMapping(ctx, id)
}
