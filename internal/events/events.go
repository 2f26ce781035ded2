package events

import (
	"context"
	"time"
)

// Event types
const (
	EventApplicationCreated = "creator.application.created"
	EventUserNotification   = "user.notification"
	EventTemplatesChanged   = "catalog.templates.changed"
)

// Channels
const (
	ChannelApplications  = "events:applications"
	ChannelNotifications = "events:notifications"
	ChannelTemplates     = "events:templates"
)

type Event struct {
	Type      string         `json:"type"`
	Timestamp string         `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(Event)) error
}

// ApplicationCreated is emitted after a creator provisions an application.
type ApplicationCreated struct {
	Timestamp       time.Time
	ApplicationID   string
	ApplicationName string
	CreatorEmail    string
	Owner           string
	Visibility      string
	TemplateID      string // empty when no template is attached
	CreatedAt       time.Time
}

func (e ApplicationCreated) Event() Event {
	var templateID any
	if e.TemplateID != "" {
		templateID = e.TemplateID
	}
	return Event{
		Type:      EventApplicationCreated,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		Payload: map[string]any{
			"application_id":   e.ApplicationID,
			"application_name": e.ApplicationName,
			"creator_email":    e.CreatorEmail,
			"owner":            e.Owner,
			"visibility":       e.Visibility,
			"template_id":      templateID,
			"created_at":       e.CreatedAt.UTC().Format(time.RFC3339),
		},
	}
}

// UserNotification targets one user's live connections.
func UserNotification(userID, kind, message string, data map[string]any, at time.Time) Event {
	payload := map[string]any{
		"user_id": userID,
		"kind":    kind,
		"message": message,
	}
	for k, v := range data {
		payload[k] = v
	}
	return Event{
		Type:      EventUserNotification,
		Timestamp: at.UTC().Format(time.RFC3339),
		Payload:   payload,
	}
}

// TemplatesChanged tells running APIs to drop their cached catalog.
func TemplatesChanged(action string, templateIDs []string, at time.Time) Event {
	return Event{
		Type:      EventTemplatesChanged,
		Timestamp: at.UTC().Format(time.RFC3339),
		Payload: map[string]any{
			"action":       action,
			"template_ids": templateIDs,
		},
	}
}
