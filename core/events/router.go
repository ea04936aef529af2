package events

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/adapters"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/internal/subscription"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/samber/lo"
)

type ErrorHandler func(err error)

type stream struct {
	registered bool
	joined     bool
}

// Router subscribes to the adapter lazily, on the first listener of each event.
type Router struct {
	ctx        context.Context
	adapter    adapters.Adapter
	registry   Registry
	probe      adapters.ExplorerProbe
	discoverer Discoverer
	config     Config

	mu             sync.Mutex
	nextID         uint64
	listeners      map[Event]map[uint64]adapters.TransactionHandler
	errorListeners map[uint64]ErrorHandler
	streams        map[Event]*stream
	perAddress     bool
	joined         map[string]struct{}
	seen           map[string]struct{}
}

// New creates a router. ctx bounds every join issued on behalf of listeners.
func New(ctx context.Context, adapter adapters.Adapter, registry Registry, probe adapters.ExplorerProbe, discoverer Discoverer, config Config) *Router {
	return &Router{
		ctx:            logger.WithContext(ctx, slogx.String("package", "events"), slogx.Stringer("backend", adapter.Backend())),
		adapter:        adapter,
		registry:       registry,
		probe:          probe,
		discoverer:     discoverer,
		config:         config,
		listeners:      make(map[Event]map[uint64]adapters.TransactionHandler),
		errorListeners: make(map[uint64]ErrorHandler),
		streams:        make(map[Event]*stream),
		joined:         make(map[string]struct{}),
		seen:           make(map[string]struct{}),
	}
}

// Broad reports whether new transactions come from the backend-wide streams.
func (r *Router) Broad() bool {
	return r.adapter.Backend() == adapters.BackendFullNode || r.config.Secure || r.config.AllTransactions
}

// On registers fn for event and returns a function removing it.
func (r *Router) On(event Event, fn adapters.TransactionHandler) (func(), error) {
	if !event.IsValid() {
		return nil, errors.Wrapf(errs.Unsupported, "unknown event %q", event)
	}
	// reverted streams don't depend on the events switch
	if !r.config.Enabled && !event.isReverted() {
		logger.WarnContext(r.ctx, "Events are disabled, listener ignored", slogx.Stringer("event", event))
		return func() {}, nil
	}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	if r.listeners[event] == nil {
		r.listeners[event] = make(map[uint64]adapters.TransactionHandler)
	}
	r.listeners[event][id] = fn
	r.mu.Unlock()

	r.ensureStream(event)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners[event], id)
	}, nil
}

// OnError registers fn for asynchronous failures and returns a function removing it.
func (r *Router) OnError(fn ErrorHandler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.errorListeners[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.errorListeners, id)
	}
}

// OnScanProgress forwards the adapter's sync progress.
func (r *Router) OnScanProgress(fn adapters.ProgressHandler) {
	r.adapter.OnProgress(r.ctx, r.probe, fn)
}

// OnConnect forwards the adapter's connect notification.
func (r *Router) OnConnect(fn adapters.ConnectHandler) {
	r.adapter.OnConnect(r.ctx, r.probe, fn)
}

// Subscribe forwards the transactions of event to ch until the subscription is closed.
// Asynchronous router failures are delivered on the subscription's error channel.
func (r *Router) Subscribe(ctx context.Context, event Event, ch chan<- *types.Transaction) (*subscription.ClientSubscription[*types.Transaction], error) {
	sub := subscription.NewSubscription(ch)
	removeListener, err := r.On(event, func(tx *types.Transaction) {
		if err := sub.Send(ctx, tx); err != nil && !errors.Is(err, subscription.ErrClosed) {
			logger.WarnContext(r.ctx, "Failed to forward transaction to subscriber", slogx.String("txid", tx.Txid), slogx.Error(err))
		}
	})
	if err != nil {
		sub.Unsubscribe()
		return nil, errors.WithStack(err)
	}
	removeErrorListener := r.OnError(func(err error) {
		_ = sub.SendError(err)
	})
	sub.OnClose(func() {
		removeListener()
		removeErrorListener()
	})
	return sub.Client(), nil
}

// ReportError delivers err to the error listeners.
func (r *Router) ReportError(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	handlers := lo.Values(r.errorListeners)
	r.mu.Unlock()

	if len(handlers) == 0 {
		logger.ErrorContext(r.ctx, "Unhandled event error", err)
		return
	}
	for _, fn := range handlers {
		fn(err)
	}
}

func (r *Router) ensureStream(event Event) {
	if !event.isReverted() && !r.Broad() {
		r.startPerAddress()
		return
	}

	r.mu.Lock()
	s, ok := r.streams[event]
	if !ok {
		s = &stream{}
		r.streams[event] = s
	}
	register := !s.registered
	s.registered = true
	if s.joined {
		r.mu.Unlock()
		return
	}
	s.joined = true
	r.mu.Unlock()

	kind := event.kind()
	if register {
		r.adapter.OnTransaction(kind, r.broadHandler(event))
	}
	if err := r.adapter.Join(r.ctx, kind); err != nil {
		r.mu.Lock()
		s.joined = false
		r.mu.Unlock()
		r.ReportError(errors.Wrapf(err, "failed to join %s", kind))
	}
}

func (r *Router) startPerAddress() {
	r.mu.Lock()
	if r.perAddress {
		r.mu.Unlock()
		return
	}
	r.perAddress = true
	r.mu.Unlock()

	r.registry.OnAdd(r.joinAddress)
	for _, address := range r.registry.Addresses() {
		r.joinAddress(address)
	}
}

func (r *Router) joinAddress(address string) {
	r.mu.Lock()
	if _, ok := r.joined[address]; ok {
		r.mu.Unlock()
		return
	}
	r.joined[address] = struct{}{}
	r.mu.Unlock()

	r.adapter.OnAddressTransaction(address, r.deliverAddressTransaction)
	if err := r.adapter.JoinAddress(r.ctx, address); err != nil {
		r.mu.Lock()
		delete(r.joined, address)
		r.mu.Unlock()
		r.ReportError(errors.Wrapf(err, "failed to join address %s", address))
		return
	}
	logger.DebugContext(r.ctx, "Joined address channel", slogx.String("address", address))
}

func (r *Router) broadHandler(event Event) adapters.TransactionHandler {
	return func(tx *types.Transaction) {
		if tx == nil {
			return
		}
		switch {
		case event.isReverted():
			r.emit(event, tx)
		case r.IsLocal(tx):
			r.discover()
			r.emit(event, tx)
		case r.config.AllTransactions:
			r.emit(event, tx)
		}
	}
}

// deliverAddressTransaction handles a push from any address channel. The same
// transaction arrives once per involved address; only the first is delivered.
func (r *Router) deliverAddressTransaction(tx *types.Transaction) {
	if tx == nil {
		return
	}
	r.mu.Lock()
	if _, ok := r.seen[tx.Txid]; ok {
		r.mu.Unlock()
		return
	}
	r.seen[tx.Txid] = struct{}{}
	r.mu.Unlock()

	r.discover()
	r.emit(NewTransaction, tx)
	if tx.Colored {
		r.emit(NewCCTransaction, tx)
	}
}

// IsLocal reports whether tx touches an address of the registry.
func (r *Router) IsLocal(tx *types.Transaction) bool {
	return lo.SomeBy(tx.Addresses(), r.registry.Contains)
}

func (r *Router) discover() {
	if r.discoverer != nil {
		r.discoverer.Discover()
	}
}

func (r *Router) emit(event Event, tx *types.Transaction) {
	r.mu.Lock()
	handlers := lo.Values(r.listeners[event])
	r.mu.Unlock()
	for _, fn := range handlers {
		fn(tx)
	}
}
