package projection

import (
	"context"

	"kuppi/internal/infrastructure/pubsub"
	"kuppi/internal/shared/goroutine"
	"kuppi/internal/shared/logger"
)

// LivePusher delivers a recomputed library view to a connected user.
// The websocket hub implements it; the projector never talks to sockets
// directly.
type LivePusher interface {
	ConnectedUserIDs() []uint
	SendToUser(userID uint, payload interface{}) bool
}

// Projector keeps connected clients' library views current. It consumes
// identity-only change events and recomputes the affected views from
// storage; event payloads are never trusted as state.
type Projector struct {
	subscriber pubsub.ChangeEventSubscriber
	builder    *LibraryViewBuilder
	pusher     LivePusher
	logger     logger.Interface
}

func NewProjector(
	subscriber pubsub.ChangeEventSubscriber,
	builder *LibraryViewBuilder,
	pusher LivePusher,
	logger logger.Interface,
) *Projector {
	return &Projector{
		subscriber: subscriber,
		builder:    builder,
		pusher:     pusher,
		logger:     logger,
	}
}

// Run consumes change events until ctx is cancelled.
func (p *Projector) Run(ctx context.Context) error {
	p.logger.Infow("live view projector started")
	return p.subscriber.Subscribe(ctx, p.handleEvent)
}

// Start runs the projector in a background goroutine.
func (p *Projector) Start(ctx context.Context) {
	goroutine.SafeGo(p.logger, "live-view-projector", func() {
		if err := p.Run(ctx); err != nil && ctx.Err() == nil {
			p.logger.Errorw("live view projector stopped", "error", err)
		}
	})
}

func (p *Projector) handleEvent(ctx context.Context, event pubsub.ChangeEvent) {
	switch event.Stream {
	case pubsub.StreamCatalog:
		// Catalog changes affect every connected user's view.
		for _, userID := range p.pusher.ConnectedUserIDs() {
			p.pushView(ctx, userID)
		}
	case pubsub.StreamProgress, pubsub.StreamPurchase:
		if event.UserID == 0 {
			return
		}
		p.pushView(ctx, event.UserID)
	default:
		p.logger.Warnw("unknown change stream", "stream", string(event.Stream))
	}
}

func (p *Projector) pushView(ctx context.Context, userID uint) {
	view, err := p.builder.Build(ctx, userID)
	if err != nil {
		p.logger.Errorw("failed to rebuild library view",
			"user_id", userID, "error", err)
		return
	}

	if !p.pusher.SendToUser(userID, view) {
		p.logger.Debugw("library view push skipped, user not connected",
			"user_id", userID)
	}
}
