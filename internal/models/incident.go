package models

import "time"

type IncidentStatus string

const (
	IncidentStatusPending  IncidentStatus = "Pending"
	IncidentStatusResolved IncidentStatus = "Resolved"
	IncidentStatusOpen     IncidentStatus = "Open"
)

// Incident.District is copied from the reporter's session when the report is
// filed and is never re-derived afterwards.
type Incident struct {
	ID          int64
	UserID      int64
	Title       string
	Category    string
	District    string
	Severity    string
	Description string
	Status      IncidentStatus
	Timestamp   time.Time
}
