package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	plain := NotFound("session not found")
	assert.Equal(t, "session not found", plain.Error())

	cause := stderrors.New("dial tcp: refused")
	wrapped := Wrap(cause, ErrCodeUpstream, "fetch alerts")
	assert.Equal(t, "fetch alerts: dial tcp: refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "never"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "never %d", 1))
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFoundf("alert %s", "a1")))
	assert.True(t, IsValidation(ValidationField("city", "required")))
	assert.True(t, IsUpstream(Upstreamf("status %d", 502)))
	assert.True(t, IsTimeout(GeoTimeout("gave up")))
	assert.True(t, IsPermissionDenied(PermissionDenied("denied")))
	assert.False(t, IsNotFound(Internal("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := PermissionDenied("denied")
	outer := fmt.Errorf("resolve location: %w", inner)

	assert.True(t, IsPermissionDenied(outer))
	assert.Equal(t, ErrCodePermissionDenied, GetCode(outer))
}

func TestGetFieldAndCode(t *testing.T) {
	err := ValidationField("latitude", "out of range")
	assert.Equal(t, "latitude", GetField(err))
	assert.Equal(t, ErrCodeValidation, GetCode(err))

	assert.Empty(t, GetField(stderrors.New("plain")))
	assert.Empty(t, GetCode(stderrors.New("plain")))
}

func TestGeoMessagePerCategory(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{PermissionDenied("x"), "Location access was denied. Enable location permissions or choose a city manually."},
		{PositionUnavailable("x"), "Your position could not be determined. Choose a city manually to continue."},
		{GeoTimeout("x"), "Locating you took too long. Choose a city manually to continue."},
		{Unsupported("x"), "This device does not support location services. Choose a city manually to continue."},
		{stderrors.New("weird"), "Something went wrong while finding your location. Choose a city manually to continue."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GeoMessage(tt.err))
	}
}
