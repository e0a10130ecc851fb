package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tourprism/tp-ui-api/internal/domain/model"
)

// AlertBuilder provides a fluent interface for building Alert values for testing.
type AlertBuilder struct {
	alert model.Alert
}

// NewAlert creates a new AlertBuilder with sensible defaults.
func NewAlert() *AlertBuilder {
	now := TestTime()
	return &AlertBuilder{
		alert: model.Alert{
			ID:           uuid.NewString(),
			Title:        "Rail strike",
			Description:  "National rail staff walkout",
			IncidentType: "strike",
			Severity:     model.SeverityHigh,
			Status:       "active",
			City:         model.DefaultCity,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// WithID sets the alert ID.
func (b *AlertBuilder) WithID(id string) *AlertBuilder {
	b.alert.ID = id
	return b
}

// WithTitle sets the alert title.
func (b *AlertBuilder) WithTitle(title string) *AlertBuilder {
	b.alert.Title = title
	return b
}

// WithCity sets the alert city.
func (b *AlertBuilder) WithCity(city string) *AlertBuilder {
	b.alert.City = city
	return b
}

// WithIncidentType sets the incident type.
func (b *AlertBuilder) WithIncidentType(incidentType string) *AlertBuilder {
	b.alert.IncidentType = incidentType
	return b
}

// WithCoordinates sets the alert coordinates.
func (b *AlertBuilder) WithCoordinates(lat, lon float64) *AlertBuilder {
	b.alert.Latitude = &lat
	b.alert.Longitude = &lon
	return b
}

// WithCreatedAt sets the creation time.
func (b *AlertBuilder) WithCreatedAt(t time.Time) *AlertBuilder {
	b.alert.CreatedAt = t
	return b
}

// Build returns the constructed alert.
func (b *AlertBuilder) Build() model.Alert {
	return b.alert
}

// Alerts builds n alerts with distinct sequential IDs ("a-0", "a-1", ...).
func Alerts(n int) []model.Alert {
	out := make([]model.Alert, 0, n)
	for i := range n {
		out = append(out, NewAlert().WithID(fmt.Sprintf("a-%d", i)).Build())
	}
	return out
}
