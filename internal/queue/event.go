// Package queue defines the incident events exchanged over RabbitMQ and the
// consumer that records them in the audit log.
package queue

import (
	"time"

	"github.com/ciclored/ciclored-api/internal/model"
)

// IncidentQueue is the durable queue incident events are routed to.
const IncidentQueue = "incident.events"

// Event types.
const (
	EventIncidentCreated  = "incident.created"
	EventIncidentReported = "incident.reported"
	EventIncidentStatus   = "incident.status_changed"
)

// IncidentEvent is published after an incident is created, confirmed or
// changes status.  It carries enough for consumers to log or notify
// without reading the database.
type IncidentEvent struct {
	Type       string    `json:"type"`
	IncidentID uint64    `json:"incident_id"`
	UserID     uint64    `json:"user_id"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	Reports    int       `json:"reports"`
	Severity   string    `json:"severity"`
	At         time.Time `json:"at"`
}

// NewIncidentEvent snapshots inc for the given event type.
func NewIncidentEvent(typ string, inc *model.Incident) IncidentEvent {
	return IncidentEvent{
		Type:       typ,
		IncidentID: inc.ID,
		UserID:     inc.UserID,
		Category:   inc.Category,
		Status:     inc.Status,
		Reports:    inc.Reports,
		Severity:   inc.Severity(),
		At:         time.Now().UTC(),
	}
}
