package ports

import (
	"context"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
)

// AlertFeed is the upstream Tourprism alert listing endpoint.
type AlertFeed interface {
	List(ctx context.Context, params model.AlertQueryParams) (model.FeedPage, error)
	Get(ctx context.Context, alertID string) (model.Alert, error)
	Stats(ctx context.Context) (model.AlertStats, error)
	Flag(ctx context.Context, alertID, userID string) error
}

// FlagNotifier delivers an Action Hub notification after an alert is
// flagged. Delivery failures are logged, never surfaced to the flagging
// user.
type FlagNotifier interface {
	NotifyFlagged(ctx context.Context, alert model.Alert, flaggedBy string) error
}
