package errors

// Geolocation error helpers. The categories mirror the failure modes a
// geolocation source can report; each maps to a human-readable message the
// UI surfaces when the manual fallback is offered.

// PermissionDenied creates a permission-denied geolocation error.
func PermissionDenied(message string) *AppError {
	return &AppError{Code: ErrCodePermissionDenied, Message: message}
}

// PositionUnavailable creates a position-unavailable geolocation error.
func PositionUnavailable(message string) *AppError {
	return &AppError{Code: ErrCodePositionUnavailable, Message: message}
}

// GeoTimeout creates a timeout geolocation error.
func GeoTimeout(message string) *AppError {
	return &AppError{Code: ErrCodeTimeout, Message: message}
}

// Unsupported creates an unsupported-capability geolocation error.
func Unsupported(message string) *AppError {
	return &AppError{Code: ErrCodeUnsupported, Message: message}
}

// GeoMessage maps a geolocation failure to the reason-specific message the
// UI shows next to the manual fallback. Unknown causes get a generic line.
func GeoMessage(err error) string {
	switch GetCode(err) {
	case ErrCodePermissionDenied:
		return "Location access was denied. Enable location permissions or choose a city manually."
	case ErrCodePositionUnavailable:
		return "Your position could not be determined. Choose a city manually to continue."
	case ErrCodeTimeout:
		return "Locating you took too long. Choose a city manually to continue."
	case ErrCodeUnsupported:
		return "This device does not support location services. Choose a city manually to continue."
	default:
		return "Something went wrong while finding your location. Choose a city manually to continue."
	}
}
