package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestApplicationCreatedEvent(t *testing.T) {
	at := time.Date(2025, 3, 10, 12, 30, 0, 0, time.FixedZone("CET", 3600))
	e := ApplicationCreated{
		Timestamp:       at,
		ApplicationID:   "app_abc123",
		ApplicationName: "storefront",
		CreatorEmail:    "creator@example.com",
		Owner:           "team-web",
		Visibility:      "INTERNAL",
		CreatedAt:       at,
	}.Event()

	if e.Type != "creator.application.created" {
		t.Errorf("type = %q", e.Type)
	}
	if e.Timestamp != "2025-03-10T11:30:00Z" {
		t.Errorf("timestamp = %q, want UTC RFC 3339", e.Timestamp)
	}
	if e.Payload["template_id"] != nil {
		t.Errorf("template_id should be null without a template, got %v", e.Payload["template_id"])
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"application_id", "application_name", "creator_email", "owner", "visibility", "template_id", "created_at"} {
		if _, ok := decoded.Payload[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
}

func TestUserNotification(t *testing.T) {
	e := UserNotification("u1", "application_status", "Your application was accepted", map[string]any{"status": "ACCEPTED"}, time.Now())
	if e.Type != EventUserNotification {
		t.Errorf("type = %q", e.Type)
	}
	if e.Payload["user_id"] != "u1" || e.Payload["status"] != "ACCEPTED" {
		t.Errorf("payload = %v", e.Payload)
	}
}

func TestTemplatesChanged(t *testing.T) {
	e := TemplatesChanged("delete", []string{"react-spa"}, time.Now())
	if e.Type != EventTemplatesChanged {
		t.Errorf("type = %q", e.Type)
	}
	if e.Payload["action"] != "delete" {
		t.Errorf("payload = %v", e.Payload)
	}
}
