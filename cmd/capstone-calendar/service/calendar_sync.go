package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/gcal"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"capstone-calendar-backend/cmd/capstone-calendar/parser"
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

const (
	firstSlotHour = 8
	eventDuration = time.Hour
)

// CalendarSyncer pushes stored stage events to a calendar one at a time and
// records the outcome of every attempt on the event row.
type CalendarSyncer struct {
	store    ProjectStore
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewCalendarSyncer(store ProjectStore, location *time.Location, logger *zap.Logger) *CalendarSyncer {
	return &CalendarSyncer{
		store:    store,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// SlotWindow places an event on its date: slot 1 starts at 08:00, each
// further slot one hour later, and a non-numeric slot counts as 0.
func SlotWindow(date time.Time, slot string, loc *time.Location) (time.Time, time.Time) {
	n, err := strconv.Atoi(strings.TrimSpace(slot))
	if err != nil {
		n = 0
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), firstSlotHour+(n-1), 0, 0, 0, loc)
	return start, start.Add(eventDuration)
}

// SyncProjectToCalendar attempts every syncable event whose stage is in
// stages. Remote failures are reported per stage and never returned.
// The batch runs to completion even if ctx is cancelled.
func (s *CalendarSyncer) SyncProjectToCalendar(
	ctx context.Context,
	client gcal.EventClient,
	parsed parser.ParsedCapstoneProject,
	project *model.CapstoneProject,
	events []model.ProjectEvent,
	stages []model.Stage,
) model.SyncReport {

	ctx = context.WithoutCancel(ctx)

	report := model.SyncReport{
		Project: model.ProjectRef{
			ID:          project.ID,
			TopicCode:   project.TopicCode,
			GroupCode:   project.GroupCode,
			TopicNameVi: project.TopicNameVi,
		},
		Results: []model.StageSyncResult{},
	}

	for i := range events {
		event := &events[i]
		if !slices.Contains(stages, event.Stage) || !event.Syncable() {
			continue
		}

		result := s.syncEvent(ctx, client, parsed, event)
		report.Results = append(report.Results, result)

		report.Summary.Attempted++
		if result.Status == model.SyncSuccess {
			report.Summary.Succeeded++
		} else {
			report.Summary.Failed++
		}
	}

	return report
}

func (s *CalendarSyncer) syncEvent(
	ctx context.Context,
	client gcal.EventClient,
	parsed parser.ParsedCapstoneProject,
	event *model.ProjectEvent,
) model.StageSyncResult {

	payload := s.buildPayload(parsed, event)
	remoteID := event.GoogleEventID

	var err error
	if remoteID != nil && *remoteID != "" {
		err = client.UpdateEvent(ctx, *remoteID, payload)
	} else {
		var id string
		id, err = client.CreateEvent(ctx, payload)
		if err == nil {
			remoteID = &id
		}
	}

	status := model.SyncSuccess
	if err != nil {
		status = model.SyncFailed
		s.logger.Warn("calendar sync failed",
			zap.String("stage", event.Stage.String()),
			zap.String("project_id", event.ProjectID),
			zap.String("google_event_id", deref(remoteID)),
			zap.Error(err),
		)
	}

	updated, werr := s.store.UpdateProjectEventSyncStatus(ctx, event.ID, remoteID, status, s.now())
	if werr != nil {
		s.logger.Error("failed to record sync status",
			zap.String("stage", event.Stage.String()),
			zap.String("event_id", event.ID),
			zap.Error(werr),
		)
		status = model.SyncFailed
		err = errors.Join(err, werr)
	} else {
		*event = *updated
	}

	result := model.StageSyncResult{
		Stage:         event.Stage,
		Status:        status,
		GoogleEventID: remoteID,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func (s *CalendarSyncer) buildPayload(parsed parser.ParsedCapstoneProject, event *model.ProjectEvent) *calendar.Event {
	start, end := SlotWindow(*event.Date, deref(event.Slot), s.location)

	return &calendar.Event{
		Summary:     parser.GenerateEventTitle(event.Stage, parsed.GroupCode, parsed.TopicCode),
		Description: parser.GenerateEventDescription(parsed, describedEvent(event)),
		Location:    deref(event.Room),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: s.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: s.location.String(),
		},
	}
}

func describedEvent(e *model.ProjectEvent) parser.ParsedProjectEvent {
	return parser.ParsedProjectEvent{
		Stage:       e.Stage,
		CouncilCode: e.CouncilCode,
		Reviewer1:   e.Reviewer1,
		Reviewer2:   e.Reviewer2,
		Slot:        e.Slot,
		Room:        e.Room,
		Result:      e.Result,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
