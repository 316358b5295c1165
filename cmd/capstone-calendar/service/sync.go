package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"capstone-calendar-backend/cmd/capstone-calendar/parser"
	"context"
	"fmt"

	"github.com/goforj/godump"
	"go.uber.org/zap"
)

// SyncService runs the row pipeline: parse, reconcile, push.
type SyncService struct {
	parser     *parser.RowParser
	reconciler *Reconciler
	syncer     *CalendarSyncer
	store      ProjectStore
	clients    CalendarClientFactory
	logger     *zap.Logger
	debug      bool
}

func NewSyncService(
	rowParser *parser.RowParser,
	reconciler *Reconciler,
	syncer *CalendarSyncer,
	store ProjectStore,
	clients CalendarClientFactory,
	logger *zap.Logger,
	debug bool,
) *SyncService {
	return &SyncService{
		parser:     rowParser,
		reconciler: reconciler,
		syncer:     syncer,
		store:      store,
		clients:    clients,
		logger:     logger,
		debug:      debug,
	}
}

func validateCoordinate(coord model.SheetCoordinate) error {
	switch {
	case coord.SheetID == "":
		return apperr.Validation("sheetId is required")
	case coord.TabName == "":
		return apperr.Validation("tabName is required")
	case coord.RowNumber < 1:
		return apperr.Validation("rowNumber must be a positive integer")
	}
	return nil
}

func (s *SyncService) parse(row map[string]any) parser.ParsedCapstoneProject {
	parsed := s.parser.Parse(parser.Row(row))
	if s.debug {
		godump.Dump(parsed)
	}
	return parsed
}

// PreviewRow parses the row without touching the store or the calendar.
func (s *SyncService) PreviewRow(req model.PreviewRequest) (*model.PreviewResult, error) {
	if err := validateCoordinate(req.SheetCoordinate); err != nil {
		return nil, err
	}

	parsed := s.parse(req.RowData)

	result := &model.PreviewResult{
		Project: model.PreviewProject{
			TopicCode:     parsed.TopicCode,
			GroupCode:     parsed.GroupCode,
			TopicNameEn:   parsed.TopicNameEn,
			TopicNameVi:   parsed.TopicNameVi,
			Mentor:        parsed.Mentor,
			Mentor1:       parsed.Mentor1,
			Mentor2:       parsed.Mentor2,
			SheetMetadata: req.SheetCoordinate,
		},
		Events: make([]model.PreviewEvent, 0, len(parsed.Events)),
	}

	for _, e := range parsed.Events {
		canSync := e.Syncable()
		result.Events = append(result.Events, model.PreviewEvent{
			Stage:       e.Stage,
			Title:       parser.GenerateEventTitle(e.Stage, parsed.GroupCode, parsed.TopicCode),
			Description: parser.GenerateEventDescription(parsed, e),
			Date:        e.Date,
			Slot:        e.Slot,
			Room:        e.Room,
			Reviewer1:   e.Reviewer1,
			Reviewer2:   e.Reviewer2,
			CouncilCode: e.CouncilCode,
			Result:      e.Result,
			CanSync:     canSync,
		})
		if canSync {
			result.Summary.SyncableEvents++
		}
	}
	result.Summary.TotalEvents = len(result.Events)

	return result, nil
}

// SyncRow parses, reconciles and pushes the row. Only structural and
// authorisation failures are returned as errors; remote failures are in
// the report.
func (s *SyncService) SyncRow(ctx context.Context, userID string, req model.SyncRequest) (*model.SyncReport, error) {
	if err := validateCoordinate(req.SheetCoordinate); err != nil {
		return nil, err
	}
	stages := req.Stages()
	for _, st := range stages {
		if !st.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("unknown stage %q", st))
		}
	}

	parsed := s.parse(req.RowData)

	// The client outlives the request: token refreshes happen mid-batch.
	client, err := s.clients.ForUser(context.WithoutCancel(ctx), userID)
	if err != nil {
		return nil, err
	}

	project, events, err := s.reconciler.UpsertCapstoneProject(ctx, userID, req.SheetCoordinate, parsed)
	if err != nil {
		return nil, err
	}

	report := s.syncer.SyncProjectToCalendar(ctx, client, parsed, project, events, stages)

	s.logger.Info("row synced",
		zap.String("user_id", userID),
		zap.String("project_id", project.ID),
		zap.Int("attempted", report.Summary.Attempted),
		zap.Int("succeeded", report.Summary.Succeeded),
		zap.Int("failed", report.Summary.Failed),
	)

	return &report, nil
}

// ListSyncedEvents flattens every stored event of the user with its parent
// project identifiers, newest project first.
func (s *SyncService) ListSyncedEvents(ctx context.Context, userID string) (*model.SyncedEventList, error) {
	projects, err := s.store.ListProjectsWithEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &model.SyncedEventList{
		Events:       []model.SyncedEvent{},
		ProjectCount: len(projects),
	}
	for _, p := range projects {
		for _, e := range p.Events {
			se := model.SyncedEvent{
				ID:               e.ID,
				Stage:            e.Stage,
				Date:             e.DateString(),
				Slot:             deref(e.Slot),
				Room:             deref(e.Room),
				CouncilCode:      deref(e.CouncilCode),
				Reviewer1:        deref(e.Reviewer1),
				Reviewer2:        deref(e.Reviewer2),
				GoogleEventID:    deref(e.GoogleEventID),
				LastSyncedAt:     e.LastSyncedAt,
				ProjectID:        p.ID,
				ProjectTopicCode: p.TopicCode,
				ProjectGroupCode: p.GroupCode,
			}
			if e.SyncStatus != nil {
				se.SyncStatus = *e.SyncStatus
			}
			list.Events = append(list.Events, se)
		}
	}
	list.EventCount = len(list.Events)

	return list, nil
}

// ListPendingSync returns events ready for a push that have no remote id
// or failed last time.
func (s *SyncService) ListPendingSync(ctx context.Context, userID string) ([]model.ProjectEvent, error) {
	return s.store.ListPendingSync(ctx, userID)
}
