package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/gcal"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"capstone-calendar-backend/cmd/capstone-calendar/parser"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

// memStore is an in-memory ProjectStore with the same uniqueness keys as
// the database: sheet_row_hash per project and (project_id, stage) per event.
type memStore struct {
	mu       sync.Mutex
	seq      int
	projects map[string]model.CapstoneProject
	events   map[string]model.ProjectEvent

	upsertProjectErr error
	statusErr        map[model.Stage]error
	statusWrites     int
}

func newMemStore() *memStore {
	return &memStore{
		projects:  map[string]model.CapstoneProject{},
		events:    map[string]model.ProjectEvent{},
		statusErr: map[model.Stage]error{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) FindProjectByHash(ctx context.Context, hash string) (*model.CapstoneProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.SheetRowHash == hash {
			p.Events = nil
			return &p, nil
		}
	}
	return nil, nil
}

func (s *memStore) UpsertProject(ctx context.Context, project *model.CapstoneProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertProjectErr != nil {
		return s.upsertProjectErr
	}

	now := time.Now()
	for id, p := range s.projects {
		if p.SheetRowHash == project.SheetRowHash {
			project.ID = id
			project.UserID = p.UserID
			project.CreateDate = p.CreateDate
			project.UpdateDate = now
			stored := *project
			stored.Events = nil
			s.projects[id] = stored
			return nil
		}
	}

	if project.ID == "" {
		project.ID = s.nextID("project")
	}
	project.CreateDate = now
	project.UpdateDate = now
	stored := *project
	stored.Events = nil
	s.projects[project.ID] = stored
	return nil
}

func (s *memStore) UpsertProjectEvent(ctx context.Context, event *model.ProjectEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.events {
		if e.ProjectID == event.ProjectID && e.Stage == event.Stage {
			event.ID = id
			event.GoogleEventID = e.GoogleEventID
			event.SyncStatus = e.SyncStatus
			event.LastSyncedAt = e.LastSyncedAt
			event.CreateDate = e.CreateDate
			event.UpdateDate = now
			s.events[id] = *event
			return nil
		}
	}

	event.ID = s.nextID("event")
	event.CreateDate = now
	event.UpdateDate = now
	s.events[event.ID] = *event
	return nil
}

func (s *memStore) UpdateProjectEventSyncStatus(ctx context.Context, eventID string, googleEventID *string, status model.SyncStatus, syncedAt time.Time) (*model.ProjectEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, apperr.NotFound("project event not found")
	}
	if err := s.statusErr[e.Stage]; err != nil {
		return nil, err
	}

	s.statusWrites++
	e.GoogleEventID = googleEventID
	e.SyncStatus = &status
	e.LastSyncedAt = &syncedAt
	e.UpdateDate = time.Now()
	s.events[eventID] = e
	return &e, nil
}

func (s *memStore) eventsOf(projectID string) []model.ProjectEvent {
	var out []model.ProjectEvent
	for _, e := range s.events {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage.Order() < out[j].Stage.Order() })
	return out
}

func (s *memStore) ListProjectsWithEvents(ctx context.Context, userID string) ([]model.CapstoneProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.CapstoneProject
	for _, p := range s.projects {
		if p.UserID == userID {
			p.Events = s.eventsOf(p.ID)
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetProject(ctx context.Context, id string) (*model.CapstoneProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, apperr.NotFound("project not found")
	}
	p.Events = s.eventsOf(id)
	return &p, nil
}

func (s *memStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return apperr.NotFound("project not found")
	}
	delete(s.projects, id)
	for eid, e := range s.events {
		if e.ProjectID == id {
			delete(s.events, eid)
		}
	}
	return nil
}

func (s *memStore) ListEventsByStage(ctx context.Context, userID string, stage model.Stage) ([]model.ProjectEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ProjectEvent
	for _, e := range s.events {
		if e.Stage == stage && s.projects[e.ProjectID].UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) ListPendingSync(ctx context.Context, userID string) ([]model.ProjectEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ProjectEvent
	for _, e := range s.events {
		if s.projects[e.ProjectID].UserID != userID || !e.Syncable() {
			continue
		}
		if e.GoogleEventID == nil || (e.SyncStatus != nil && *e.SyncStatus == model.SyncFailed) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) onlyEvent(stage model.Stage) model.ProjectEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Stage == stage {
			return e
		}
	}
	return model.ProjectEvent{}
}

type MockEventClient struct {
	mock.Mock
}

func (m *MockEventClient) CreateEvent(ctx context.Context, event *calendar.Event) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

func (m *MockEventClient) UpdateEvent(ctx context.Context, eventID string, event *calendar.Event) error {
	args := m.Called(ctx, eventID, event)
	return args.Error(0)
}

type fakeClientFactory struct {
	client gcal.EventClient
	err    error
}

func (f *fakeClientFactory) ForUser(ctx context.Context, userID string) (gcal.EventClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func titled(title string) any {
	return mock.MatchedBy(func(e *calendar.Event) bool {
		return e.Summary == title
	})
}

// capstoneRow is a row with REV1 and REV2 ready to sync.
func capstoneRow() map[string]any {
	return map[string]any{
		"B":  "SP001",
		"C":  "G01",
		"D":  "Smart Parking",
		"E":  "Bãi đỗ xe thông minh",
		"F":  "Dr. Lan",
		"N":  "HD01",
		"P":  "Reviewer A",
		"Q":  "Reviewer B",
		"S":  "1/22/2026",
		"U":  "2",
		"V":  "P.301",
		"AA": "2/5/2026",
		"AB": "3",
		"AC": "P.302",
	}
}

func syncRequest(row map[string]any, stages ...model.Stage) model.SyncRequest {
	req := model.SyncRequest{
		SheetCoordinate: model.SheetCoordinate{SheetID: "sheet-1", TabName: "Capstone", RowNumber: 5},
		RowData:         row,
	}
	if len(stages) > 0 {
		req.SyncOptions = &model.SyncOptions{StagesToSync: stages}
	}
	return req
}

func newTestSyncService(store *memStore, client gcal.EventClient) *SyncService {
	loc, _ := time.LoadLocation("Asia/Ho_Chi_Minh")
	logger := testLogger()
	return NewSyncService(
		parser.MustNew(parser.DefaultLayout()),
		NewReconciler(store),
		NewCalendarSyncer(store, loc, logger),
		store,
		&fakeClientFactory{client: client},
		logger,
		false,
	)
}

func ptr[T any](v T) *T {
	return &v
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
