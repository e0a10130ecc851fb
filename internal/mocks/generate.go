// Package mocks provides mock implementations for testing gateway services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockFeed := mocks.NewMockAlertFeed(ctrl)
//	mockFeed.EXPECT().List(gomock.Any(), gomock.Any()).Return(page, nil)
package mocks

// Generate mock for AlertFeed interface from internal/ports.
// This creates MockAlertFeed with List, Get, Stats, Flag.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=alert_feed_mock.go github.com/tourprism/tp-ui-api/internal/ports AlertFeed

// Generate mock for FlagNotifier interface from internal/ports.
// This creates MockFlagNotifier with NotifyFlagged.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=flag_notifier_mock.go github.com/tourprism/tp-ui-api/internal/ports FlagNotifier

// Generate mock for Geolocator interface from internal/ports.
// This creates MockGeolocator with Locate.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=geolocator_mock.go github.com/tourprism/tp-ui-api/internal/ports Geolocator

// Generate mock for ReverseGeocoder interface from internal/ports.
// This creates MockReverseGeocoder with CityFor.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=reverse_geocoder_mock.go github.com/tourprism/tp-ui-api/internal/ports ReverseGeocoder

// Generate mock for LocationStore interface from internal/ports.
// This creates MockLocationStore with Save, Get, Delete.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=location_store_mock.go github.com/tourprism/tp-ui-api/internal/ports LocationStore
