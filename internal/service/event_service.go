package service

import (
	"context"
	"fmt"
	"time"

	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"go.uber.org/zap"
)

// EventService generates and manages weekly ordering windows
type EventService struct {
	store         *store.Store
	eventWeeks    int
	defaultBudget float64
	logger        *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(st *store.Store, eventWeeks int, defaultBudget float64) *EventService {
	return &EventService{
		store:         st,
		eventWeeks:    eventWeeks,
		defaultBudget: defaultBudget,
		logger:        util.GetLogger(),
	}
}

// MondayOf returns the Monday 00:00:00 of the ISO week containing t.
// Sunday counts as day 7 of the prior week.
func MondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(weekday - 1))
}

// weeklyEventID derives a deterministic id from the week-start timestamp,
// so a rerun can never mint a second event for the same week.
func weeklyEventID(monday time.Time) string {
	return fmt.Sprintf("regular-%d", monday.Unix())
}

// GenerateWeeklyEvents derives the Regular events missing between the week
// after the latest known Regular event and the lookahead horizon. It is
// additive and idempotent: existing events are never touched, and weeks
// already materialized are skipped. Only the new events are returned.
func GenerateWeeklyEvents(existing []models.Event, today time.Time, eventWeeks int, defaultBudget float64) []models.Event {
	lastEventDate := today
	for _, e := range existing {
		if e.Type == models.EventTypeRegular && e.EndDate.After(lastEventDate) {
			lastEventDate = e.EndDate
		}
	}

	cursor := MondayOf(lastEventDate).AddDate(0, 0, 7)
	futureLimit := today.AddDate(0, 0, eventWeeks*7)

	materialized := make(map[int64]struct{})
	for _, e := range existing {
		if e.Type == models.EventTypeRegular {
			materialized[MondayOf(e.StartDate).Unix()] = struct{}{}
		}
	}

	var generated []models.Event
	for cursor.Before(futureLimit) {
		monday := MondayOf(cursor)
		if _, ok := materialized[monday.Unix()]; !ok {
			friday := monday.AddDate(0, 0, 4)
			generated = append(generated, models.Event{
				ID:        weeklyEventID(monday),
				Name:      fmt.Sprintf("Weekly order %s", monday.Format("2006-01-02")),
				Type:      models.EventTypeRegular,
				Status:    models.EventStatusScheduled,
				StartDate: monday,
				EndDate: time.Date(friday.Year(), friday.Month(), friday.Day(),
					23, 59, 59, 0, friday.Location()),
				Budget:               defaultBudget,
				AuthorizedTeacherIDs: []string{},
			})
		}
		cursor = cursor.AddDate(0, 0, 7)
	}
	return generated
}

// EnsureUpcomingEvents runs the generator against the stored events and
// merges the result, persisting once
func (s *EventService) EnsureUpcomingEvents(ctx context.Context) ([]models.Event, error) {
	ctx, span := util.StartSpan(ctx, "EventService.EnsureUpcomingEvents")
	defer span.End()

	generated := GenerateWeeklyEvents(s.store.Events(), time.Now(), s.eventWeeks, s.defaultBudget)
	if len(generated) == 0 {
		return nil, nil
	}
	if err := s.store.MergeGeneratedEvents(ctx, generated); err != nil {
		return nil, fmt.Errorf("failed to merge generated events: %w", err)
	}

	util.EventsGeneratedTotal.Add(float64(len(generated)))
	s.logger.Info("Generated weekly ordering events", zap.Int("count", len(generated)))
	return generated, nil
}

// CreateExtraordinaryEvent creates a manually scheduled event restricted
// to an explicit teacher allow-list
func (s *EventService) CreateExtraordinaryEvent(ctx context.Context, e models.Event) (models.Event, error) {
	ctx, span := util.StartSpan(ctx, "EventService.CreateExtraordinaryEvent")
	defer span.End()

	e.Type = models.EventTypeExtraordinary
	if e.AuthorizedTeacherIDs == nil {
		e.AuthorizedTeacherIDs = []string{}
	}
	return s.store.AddEvent(ctx, e)
}

// TransitionEvent moves an event to a new lifecycle status
func (s *EventService) TransitionEvent(ctx context.Context, eventID, status string) (models.Event, error) {
	switch status {
	case models.EventStatusInactive, models.EventStatusScheduled,
		models.EventStatusActive, models.EventStatusClosed:
	default:
		return models.Event{}, fmt.Errorf("unknown event status %q: %w", status, store.ErrValidation)
	}

	e, err := s.store.EventByID(eventID)
	if err != nil {
		return models.Event{}, err
	}
	e.Status = status
	if err := s.store.UpdateEvent(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// EventsVisibleToTeacher lists events a teacher may order against:
// every Regular event, plus Extraordinary events naming the teacher
func (s *EventService) EventsVisibleToTeacher(teacherID string) []models.Event {
	var out []models.Event
	for _, e := range s.store.Events() {
		if e.Type == models.EventTypeRegular {
			out = append(out, e)
			continue
		}
		for _, id := range e.AuthorizedTeacherIDs {
			if id == teacherID {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
