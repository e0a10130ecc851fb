package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
	"github.com/tourprism/tp-ui-api/internal/ports"
)

// notifyTimeout bounds the background webhook delivery after the HTTP
// request that triggered it has already been answered.
const notifyTimeout = 30 * time.Second

// ActionHubServiceOptions groups dependencies for ActionHubService.
type ActionHubServiceOptions struct {
	Feed     ports.AlertFeed
	Notifier ports.FlagNotifier
	Logger   *slog.Logger
}

// ActionHubService forwards alert flags upstream and notifies the Action Hub
// webhook. Notification is fire-and-forget: a sink outage never fails the
// flag itself.
type ActionHubService struct {
	feed     ports.AlertFeed
	notifier ports.FlagNotifier
	logger   *slog.Logger
}

// NewActionHubService constructs an ActionHubService. The notifier is
// optional; without one, flags are forwarded upstream only.
func NewActionHubService(opts ActionHubServiceOptions) (*ActionHubService, error) {
	if opts.Feed == nil {
		return nil, errors.New("alert feed is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ActionHubService{
		feed:     opts.Feed,
		notifier: opts.Notifier,
		logger:   logger,
	}, nil
}

// FlagAlert records that a user flagged an alert and notifies the webhook
// sink in the background.
func (s *ActionHubService) FlagAlert(ctx context.Context, alertID, userID string) error {
	if strings.TrimSpace(alertID) == "" {
		return apperrors.Validation("alert ID is required")
	}
	if strings.TrimSpace(userID) == "" {
		return apperrors.Validation("user ID is required")
	}

	if err := s.feed.Flag(ctx, alertID, userID); err != nil {
		return fmt.Errorf("flag alert: %w", err)
	}

	if s.notifier != nil {
		// Enrich the notification with alert details when they resolve;
		// the bare ID is still worth delivering when they don't.
		alert, err := s.feed.Get(ctx, alertID)
		if err != nil {
			s.logger.Warn("flagged alert lookup failed",
				slog.String("alert_id", alertID),
				slog.Any("error", err))
			alert = model.Alert{ID: alertID}
		}
		go s.notify(alert, userID)
	}

	return nil
}

// notify delivers the flagged event on its own deadline, detached from the
// request context.
func (s *ActionHubService) notify(alert model.Alert, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyFlagged(ctx, alert, userID); err != nil {
		s.logger.Warn("flag notification failed",
			slog.String("alert_id", alert.ID),
			slog.Any("error", err))
	}
}
