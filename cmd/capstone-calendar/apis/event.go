package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"

	"github.com/labstack/echo/v4"
)

type IEventMappingService interface {
	UpsertEventMapping(ctx context.Context, userID string, req model.EventMappingCreateRequest) (*model.EventMapping, error)
	ListEventMappings(ctx context.Context, userID string) ([]model.EventMapping, error)
	ListEventMappingsByStatus(ctx context.Context, userID string, status model.SyncStatus) ([]model.EventMapping, error)
	GetEventMapping(ctx context.Context, userID, id string) (*model.EventMapping, error)
	UpdateEventMapping(ctx context.Context, userID, id string, req model.EventMappingUpdateRequest) (*model.EventMapping, error)
	DeleteEventMapping(ctx context.Context, userID, id string) error
}

type EventAPI struct {
	eventService IEventMappingService
}

func NewEventAPI(eventService IEventMappingService) *EventAPI {

	return &EventAPI{
		eventService: eventService,
	}
}

func (a *EventAPI) Setup(g *echo.Group) {
	g.GET("/events", a.listEvents)
	g.GET("/events/status", a.listEventsByStatus)
	g.POST("/events", a.upsertEvent)
	g.GET("/events/:id", a.getEvent)
	g.PUT("/events/:id", a.updateEvent)
	g.DELETE("/events/:id", a.deleteEvent)
}

func (a *EventAPI) listEvents(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.eventService.ListEventMappings(ctx, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, events)
}

func (a *EventAPI) listEventsByStatus(c echo.Context) error {

	ctx := c.Request().Context()

	status := model.SyncStatus(c.QueryParam("status"))
	events, err := a.eventService.ListEventMappingsByStatus(ctx, currentUserID(c), status)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, events)
}

func (a *EventAPI) upsertEvent(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.EventMappingCreateRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}

	event, err := a.eventService.UpsertEventMapping(ctx, currentUserID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, event)
}

func (a *EventAPI) getEvent(c echo.Context) error {

	ctx := c.Request().Context()

	event, err := a.eventService.GetEventMapping(ctx, currentUserID(c), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, event)
}

func (a *EventAPI) updateEvent(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.EventMappingUpdateRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}

	event, err := a.eventService.UpdateEventMapping(ctx, currentUserID(c), c.Param("id"), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, event)
}

func (a *EventAPI) deleteEvent(c echo.Context) error {

	ctx := c.Request().Context()

	if err := a.eventService.DeleteEventMapping(ctx, currentUserID(c), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}

	return success(c, nil)
}
