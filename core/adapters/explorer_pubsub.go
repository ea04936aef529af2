package adapters

import (
	"context"
	"sync"

	"github.com/centrifugal/centrifuge-go"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
)

// PubSub is a channel based publish/subscribe connection.
type PubSub interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, channel string, handler func(data []byte)) error
	Unsubscribe(ctx context.Context, channel string) error
	Close() error
}

// CentrifugePubSub is a PubSub backed by a centrifuge websocket client.
type CentrifugePubSub struct {
	client *centrifuge.Client

	mu            sync.Mutex
	subscriptions map[string]*centrifuge.Subscription
	connectOnce   sync.Once
	connectErr    error
}

var _ PubSub = (*CentrifugePubSub)(nil)

// NewCentrifugePubSub creates a client for the given websocket endpoint,
// e.g. wss://explorer.example/connection/websocket.
func NewCentrifugePubSub(endpoint string) *CentrifugePubSub {
	ctx := logger.WithContext(context.Background(), slogx.String("package", "adapters"), slogx.String("pubsub", endpoint))

	client := centrifuge.NewJsonClient(endpoint, centrifuge.Config{})
	client.OnConnected(func(e centrifuge.ConnectedEvent) {
		logger.InfoContext(ctx, "Connected to pub/sub server", slogx.String("client_id", e.ClientID))
	})
	client.OnDisconnected(func(e centrifuge.DisconnectedEvent) {
		logger.WarnContext(ctx, "Disconnected from pub/sub server", slogx.Any("code", e.Code), slogx.String("reason", e.Reason))
	})
	client.OnError(func(e centrifuge.ErrorEvent) {
		logger.ErrorContext(ctx, "Pub/sub client error", e.Error)
	})

	return &CentrifugePubSub{
		client:        client,
		subscriptions: make(map[string]*centrifuge.Subscription),
	}
}

func (p *CentrifugePubSub) Connect(context.Context) error {
	p.connectOnce.Do(func() {
		p.connectErr = p.client.Connect()
	})
	return errors.Wrap(p.connectErr, "can't connect pub/sub client")
}

func (p *CentrifugePubSub) Subscribe(ctx context.Context, channel string, handler func(data []byte)) error {
	if err := p.Connect(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.subscriptions[channel]; ok {
		return nil
	}

	sub, err := p.client.NewSubscription(channel, centrifuge.SubscriptionConfig{})
	if err != nil {
		return errors.Wrapf(err, "can't create subscription %q", channel)
	}
	sub.OnPublication(func(e centrifuge.PublicationEvent) {
		handler(e.Data)
	})
	sub.OnError(func(e centrifuge.SubscriptionErrorEvent) {
		logger.ErrorContext(ctx, "Subscription error", e.Error, slogx.String("channel", channel))
	})
	if err := sub.Subscribe(); err != nil {
		_ = p.client.RemoveSubscription(sub)
		return errors.Wrapf(err, "can't subscribe %q", channel)
	}
	p.subscriptions[channel] = sub
	return nil
}

func (p *CentrifugePubSub) Unsubscribe(_ context.Context, channel string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	sub, ok := p.subscriptions[channel]
	if !ok {
		return nil
	}
	delete(p.subscriptions, channel)
	if err := sub.Unsubscribe(); err != nil {
		return errors.Wrapf(err, "can't unsubscribe %q", channel)
	}
	return errors.WithStack(p.client.RemoveSubscription(sub))
}

func (p *CentrifugePubSub) Close() error {
	p.client.Close()
	return nil
}
