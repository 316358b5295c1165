// Package gcal talks to Google: the Calendar API for event pushes and
// OAuth2 for user consent and token refresh.
package gcal

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// EventClient creates and updates events on one calendar.
type EventClient interface {
	CreateEvent(ctx context.Context, event *calendar.Event) (string, error)
	UpdateEvent(ctx context.Context, eventID string, event *calendar.Event) error
}

type Client struct {
	service    *calendar.Service
	calendarID string
}

func NewClient(ctx context.Context, httpClient *http.Client, calendarID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{
		service:    service,
		calendarID: calendarID,
	}, nil
}

// CreateEvent inserts event and returns the id Google assigned to it.
func (c *Client) CreateEvent(ctx context.Context, event *calendar.Event) (string, error) {
	created, err := c.service.Events.
		Insert(c.calendarID, event).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return created.Id, nil
}

func (c *Client) UpdateEvent(ctx context.Context, eventID string, event *calendar.Event) error {
	_, err := c.service.Events.
		Update(c.calendarID, eventID, event).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	return nil
}
