package model

// DefaultCity is the demo city offered as the manual fallback when no
// location can be acquired.
const DefaultCity = "Edinburgh"

// UnknownCity is the placeholder city name used when reverse geocoding
// fails for an otherwise valid coordinate fix.
const UnknownCity = "Unknown location"

// LocationSource tags how a resolved location was obtained.
type LocationSource string

const (
	// SourceGPSHigh is a device fix acquired with high accuracy requested.
	SourceGPSHigh LocationSource = "gps-high"
	// SourceGPSLow is a device fix from the low-accuracy retry.
	SourceGPSLow LocationSource = "gps-low"
	// SourceManual is a city the user picked or confirmed by hand.
	SourceManual LocationSource = "manual"
	// SourceStored is a previously persisted location replayed from storage.
	SourceStored LocationSource = "stored"
)

// Valid returns true if the source is a known tag.
func (s LocationSource) Valid() bool {
	switch s {
	case SourceGPSHigh, SourceGPSLow, SourceManual, SourceStored:
		return true
	default:
		return false
	}
}

// String returns the string representation of the location source.
func (s LocationSource) String() string {
	return string(s)
}

// GeoFix is a raw position fix from a geolocation source.
type GeoFix struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
}

// Valid reports whether the fix carries WGS-84 coordinates.
func (f GeoFix) Valid() bool {
	return ValidCoordinates(f.Latitude, f.Longitude)
}

// ValidCoordinates reports whether lat/lon are within WGS-84 bounds.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ResolvedLocation is the outcome of location resolution. City is always
// present once resolved; coordinates are optional (manual picks have none).
type ResolvedLocation struct {
	City               string         `json:"city"`
	Latitude           *float64       `json:"latitude,omitempty"`
	Longitude          *float64       `json:"longitude,omitempty"`
	AccuracyMeters     *float64       `json:"accuracy_meters,omitempty"`
	Source             LocationSource `json:"source"`
	LowAccuracyWarning bool           `json:"low_accuracy_warning,omitempty"`
}

// HasCoordinates reports whether the location carries a valid coordinate
// pair. Records with out-of-range coordinates are treated as city-only.
func (l ResolvedLocation) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil && ValidCoordinates(*l.Latitude, *l.Longitude)
}

// WellFormed reports whether a persisted record can be replayed as-is:
// a city is present and any coordinates are in range.
func (l ResolvedLocation) WellFormed() bool {
	if l.City == "" {
		return false
	}
	if (l.Latitude == nil) != (l.Longitude == nil) {
		return false
	}
	if l.Latitude != nil && !ValidCoordinates(*l.Latitude, *l.Longitude) {
		return false
	}
	return true
}
