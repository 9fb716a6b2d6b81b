package store

import (
	"context"
	"fmt"
	"time"

	"catering-service/internal/models"

	"github.com/google/uuid"
)

// Messages returns a copy of the message log
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

// MessagesForUser returns messages addressed to one recipient
func (s *Store) MessagesForUser(userID string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Message
	for _, m := range s.messages {
		for _, r := range m.RecipientIDs {
			if r == userID {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// AddMessage appends a message to the log
func (s *Store) AddMessage(ctx context.Context, m models.Message) (models.Message, error) {
	if len(m.RecipientIDs) == 0 {
		return models.Message{}, fmt.Errorf("message requires recipients: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	if m.ReadBy == nil {
		m.ReadBy = []string{}
	}
	s.messages = append(s.messages, m)
	if err := s.persist(ctx, KeyMessages, s.messages); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// MarkMessageRead records that a recipient has read a message
func (s *Store) MarkMessageRead(ctx context.Context, messageID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID != messageID {
			continue
		}
		for _, r := range s.messages[i].ReadBy {
			if r == userID {
				return nil
			}
		}
		s.messages[i].ReadBy = append(s.messages[i].ReadBy, userID)
		return s.persist(ctx, KeyMessages, s.messages)
	}
	return fmt.Errorf("message %s: %w", messageID, ErrNotFound)
}

// Notifications returns a copy of the notification log
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.notifications...)
}

// NotificationsForUser returns one user's notifications
func (s *Store) NotificationsForUser(userID string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// AddNotification appends a notification. A notification with the same
// SourceID for the same user is appended only once, which keeps the
// at-least-once broker consumer idempotent.
func (s *Store) AddNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.UserID == "" {
		return models.Notification{}, fmt.Errorf("notification requires a user: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.SourceID != "" {
		for _, existing := range s.notifications {
			if existing.UserID == n.UserID && existing.SourceID == n.SourceID {
				return existing, nil
			}
		}
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.notifications = append(s.notifications, n)
	if err := s.persist(ctx, KeyNotifications, s.notifications); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// MarkNotificationRead flips a notification's read flag
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			if s.notifications[i].IsRead {
				return nil
			}
			s.notifications[i].IsRead = true
			return s.persist(ctx, KeyNotifications, s.notifications)
		}
	}
	return fmt.Errorf("notification %s: %w", id, ErrNotFound)
}

// Incidents returns a copy of the incident log
func (s *Store) Incidents() []models.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Incident(nil), s.incidents...)
}

// AddIncidents appends a batch of incidents and persists once
func (s *Store) AddIncidents(ctx context.Context, incidents []models.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range incidents {
		if incidents[i].ID == "" {
			incidents[i].ID = uuid.New().String()
		}
		if incidents[i].Date.IsZero() {
			incidents[i].Date = time.Now()
		}
		s.incidents = append(s.incidents, incidents[i])
	}
	return s.persist(ctx, KeyIncidents, s.incidents)
}
