package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) PreviewRow(req model.PreviewRequest) (*model.PreviewResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreviewResult), args.Error(1)
}

func (m *MockSyncService) SyncRow(ctx context.Context, userID string, req model.SyncRequest) (*model.SyncReport, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncReport), args.Error(1)
}

func (m *MockSyncService) ListSyncedEvents(ctx context.Context, userID string) (*model.SyncedEventList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncedEventList), args.Error(1)
}

func (m *MockSyncService) ListPendingSync(ctx context.Context, userID string) ([]model.ProjectEvent, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.ProjectEvent), args.Error(1)
}

const syncBody = `{
	"sheetId": "sheet-1",
	"tabName": "Capstone",
	"rowNumber": 5,
	"rowData": {"B": "SP001", "C": "G01", "S": "1/22/2026", "U": 2, "V": "P.301"},
	"syncOptions": {"stagesToSync": ["REV1"]}
}`

func TestCalendarAPI_SyncRow_Success(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/api/calendar/sync", jsonBody(syncBody))

	mockService := new(MockSyncService)
	api := NewCalendarAPI(mockService)

	report := &model.SyncReport{
		Project: model.ProjectRef{ID: "project-1", TopicCode: "SP001"},
		Results: []model.StageSyncResult{{Stage: model.StageRev1, Status: model.SyncSuccess}},
		Summary: model.SyncSummary{Attempted: 1, Succeeded: 1},
	}
	mockService.On("SyncRow", mock.Anything, "user-1", mock.MatchedBy(func(req model.SyncRequest) bool {
		return req.RowNumber == 5 &&
			req.RowData["B"] == "SP001" &&
			len(req.Stages()) == 1 && req.Stages()[0] == model.StageRev1
	})).Return(report, nil)

	err := api.syncRow(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var actual model.SyncReport
	decodeData(t, decodeResponse(t, rec), &actual)
	assert.Equal(t, report.Summary, actual.Summary)
	mockService.AssertExpectations(t)
}

func TestCalendarAPI_SyncRow_ValidationFailure(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"missing sheet id", `{"tabName":"t","rowNumber":5,"rowData":{"B":"x"}}`},
		{"row number zero", `{"sheetId":"s","tabName":"t","rowNumber":0,"rowData":{"B":"x"}}`},
		{"missing row data", `{"sheetId":"s","tabName":"t","rowNumber":5}`},
		{"unknown stage", `{"sheetId":"s","tabName":"t","rowNumber":5,"rowData":{"B":"x"},"syncOptions":{"stagesToSync":["REV9"]}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodPost, "/api/calendar/sync", jsonBody(tc.body))

			mockService := new(MockSyncService)
			api := NewCalendarAPI(mockService)

			err := api.syncRow(c)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			mockService.AssertNotCalled(t, "SyncRow", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCalendarAPI_SyncRow_NotConnected(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/api/calendar/sync", jsonBody(syncBody))

	mockService := new(MockSyncService)
	api := NewCalendarAPI(mockService)

	mockService.On("SyncRow", mock.Anything, "user-1", mock.Anything).Return(nil, apperr.Unauthorized("google calendar is not connected"))

	err := api.syncRow(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "google calendar is not connected", decodeResponse(t, rec).Message)
}

func syncedList() *model.SyncedEventList {
	return &model.SyncedEventList{
		Events: []model.SyncedEvent{
			{
				ID:               "event-1",
				Stage:            model.StageRev1,
				Date:             "2026-01-22",
				Slot:             "2",
				Room:             "P.301",
				GoogleEventID:    "g-1",
				SyncStatus:       model.SyncSuccess,
				ProjectID:        "project-1",
				ProjectTopicCode: "SP001",
				ProjectGroupCode: "G01",
			},
		},
		ProjectCount: 1,
		EventCount:   1,
	}
}

func TestCalendarAPI_ListSyncedEvents(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/calendar/events", nil)

	mockService := new(MockSyncService)
	api := NewCalendarAPI(mockService)

	mockService.On("ListSyncedEvents", mock.Anything, "user-1").Return(syncedList(), nil)

	err := api.listSyncedEvents(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var actual model.SyncedEventList
	decodeData(t, decodeResponse(t, rec), &actual)
	assert.Equal(t, 1, actual.EventCount)
	assert.Equal(t, "SP001", actual.Events[0].ProjectTopicCode)
}

func TestCalendarAPI_ExportSyncedEvents(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/calendar/events/export", nil)

	mockService := new(MockSyncService)
	api := NewCalendarAPI(mockService)

	mockService.On("ListSyncedEvents", mock.Anything, "user-1").Return(syncedList(), nil)

	err := api.exportSyncedEvents(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "synced-events.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,stage,date,slot,room"))
	assert.NotContains(t, lines[0], "last_synced_at")
	assert.Contains(t, lines[1], "event-1,REV1,2026-01-22,2,P.301")
}

func TestCalendarAPI_ListPending(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/calendar/pending", nil)

	mockService := new(MockSyncService)
	api := NewCalendarAPI(mockService)

	mockService.On("ListPendingSync", mock.Anything, "user-1").Return([]model.ProjectEvent{{ID: "event-2", Stage: model.StageRev2}}, nil)

	err := api.listPending(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var events []model.ProjectEvent
	decodeData(t, decodeResponse(t, rec), &events)
	require.Len(t, events, 1)
	assert.Equal(t, model.StageRev2, events[0].Stage)
}
