package model

import (
	"time"
)

// Alert represents a travel-disruption alert as served by the upstream
// Tourprism API. The gateway never owns alert storage; this is the wire
// shape it consumes and re-serves to the SPA.
type Alert struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	IncidentType string     `json:"incident_type"`
	Severity     Severity   `json:"severity"`
	Status       string     `json:"status"`
	City         string     `json:"city"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	FlagCount    int        `json:"flag_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Severity represents the severity level of an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Valid returns true if the severity is a known level.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// FeedPage is one page of the upstream alert listing.
type FeedPage struct {
	Alerts     []Alert `json:"alerts"`
	TotalCount int     `json:"totalCount"`
}

// AlertStats summarizes alert volumes for the dashboard view.
type AlertStats struct {
	Total          int            `json:"total"`
	Active         int            `json:"active"`
	Last24h        int            `json:"last_24h"`
	ByIncidentType map[string]int `json:"by_incident_type,omitempty"`
}
