package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"net/http"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

type ISyncService interface {
	SyncRow(ctx context.Context, userID string, req model.SyncRequest) (*model.SyncReport, error)
	ListSyncedEvents(ctx context.Context, userID string) (*model.SyncedEventList, error)
	ListPendingSync(ctx context.Context, userID string) ([]model.ProjectEvent, error)
}

type CalendarAPI struct {
	syncService ISyncService
}

func NewCalendarAPI(syncService ISyncService) *CalendarAPI {
	return &CalendarAPI{
		syncService: syncService,
	}
}

func (a *CalendarAPI) Setup(g *echo.Group) {
	g.POST("/calendar/sync", a.syncRow)
	g.GET("/calendar/events", a.listSyncedEvents)
	g.GET("/calendar/events/export", a.exportSyncedEvents)
	g.GET("/calendar/pending", a.listPending)
}

func (a *CalendarAPI) syncRow(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.SyncRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}

	report, err := a.syncService.SyncRow(ctx, currentUserID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, report)
}

func (a *CalendarAPI) listSyncedEvents(c echo.Context) error {

	ctx := c.Request().Context()

	list, err := a.syncService.ListSyncedEvents(ctx, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, list)
}

func (a *CalendarAPI) exportSyncedEvents(c echo.Context) error {

	ctx := c.Request().Context()

	list, err := a.syncService.ListSyncedEvents(ctx, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	body, err := gocsv.MarshalBytes(&list.Events)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="synced-events.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (a *CalendarAPI) listPending(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.syncService.ListPendingSync(ctx, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, events)
}
