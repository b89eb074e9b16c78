package calendar

import (
	"context"
	"errors"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// googleBackend implements Backend on top of the Google Calendar API.
type googleBackend struct {
	service *gcal.Service
}

// NewGoogleBackend creates a Backend over the Google Calendar API.
func NewGoogleBackend(ctx context.Context, opts ...option.ClientOption) (Backend, error) {
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &googleBackend{service: service}, nil
}

func (b *googleBackend) ListCalendars(ctx context.Context) ([]Calendar, error) {
	list, err := b.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	var calendars []Calendar
	for _, item := range list.Items {
		if item.AccessRole != "owner" && item.AccessRole != "writer" {
			continue
		}
		calendars = append(calendars, Calendar{
			ID:      item.Id,
			Primary: item.Primary,
		})
	}
	return calendars, nil
}

func (b *googleBackend) CreateEvent(ctx context.Context, calendarID string, event EventInput) (string, error) {
	overrides := make([]*gcal.EventReminder, 0, len(event.MinutesBefore))
	for _, minutes := range event.MinutesBefore {
		overrides = append(overrides, &gcal.EventReminder{
			Method:  "popup",
			Minutes: minutes,
		})
	}

	created, err := b.service.Events.Insert(calendarID, &gcal.Event{
		Summary:     event.Title,
		Location:    event.Location,
		Description: event.Notes,
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (b *googleBackend) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := b.service.Events.Delete(calendarID, eventID).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return ErrEventNotFound
	}
	return err
}
