package adapters

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/httpclient"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/samber/lo"
)

const addressChannelPrefix = "address/"

type ExplorerConfig struct {
	Host    string
	Timeout time.Duration
	Debug   bool
}

// ExplorerAdapter reads chain state from a block explorer service and receives
// events over its publish/subscribe channels. Channels must be joined explicitly.
type ExplorerAdapter struct {
	rpc    *rpcClient
	pubsub PubSub

	mu       sync.RWMutex
	handlers map[string][]TransactionHandler
	joined   map[string]struct{}
}

var (
	_ Adapter       = (*ExplorerAdapter)(nil)
	_ ExplorerProbe = (*ExplorerAdapter)(nil)
)

func NewExplorerAdapter(config ExplorerConfig, pubsub PubSub) (*ExplorerAdapter, error) {
	client, err := httpclient.New(config.Host, httpclient.Config{
		Debug:   config.Debug,
		Timeout: config.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create explorer http client")
	}
	return &ExplorerAdapter{
		rpc:      &rpcClient{backend: BackendExplorer, client: client},
		pubsub:   pubsub,
		handlers: make(map[string][]TransactionHandler),
		joined:   make(map[string]struct{}),
	}, nil
}

func (e *ExplorerAdapter) Backend() Backend {
	return BackendExplorer
}

// Status is always synced, the explorer is the reference chain.
func (e *ExplorerAdapter) Status() types.SyncStatus {
	return types.SyncStatusSynced
}

func (e *ExplorerAdapter) Connect(ctx context.Context) error {
	if e.pubsub == nil {
		return nil
	}
	return errors.WithStack(e.pubsub.Connect(ctx))
}

type addressUtxos struct {
	Address string        `json:"address"`
	Utxos   []*types.UTXO `json:"utxos"`
}

func (e *ExplorerAdapter) GetAddressesUtxos(ctx context.Context, addresses []string) ([]*types.UTXO, error) {
	if len(addresses) == 0 {
		return []*types.UTXO{}, nil
	}

	var groups []addressUtxos
	err := e.rpc.postJSON(ctx, "getaddressesutxos", "api/getaddressesutxos", map[string]any{"addresses": addresses}, &groups)
	if errors.Is(err, ErrEmptyResponse) {
		return []*types.UTXO{}, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// multisig outputs are listed under every address they pay
	seen := make(map[types.OutPointRef]struct{})
	utxos := make([]*types.UTXO, 0)
	for _, group := range groups {
		for _, utxo := range group.Utxos {
			if utxo == nil {
				continue
			}
			if _, ok := seen[utxo.OutPoint()]; ok {
				continue
			}
			seen[utxo.OutPoint()] = struct{}{}
			utxos = append(utxos, utxo)
		}
	}
	return utxos, nil
}

func (e *ExplorerAdapter) GetUtxos(ctx context.Context, refs []types.OutPointRef) ([]*types.UTXO, error) {
	if len(refs) == 0 {
		return []*types.UTXO{}, nil
	}

	var utxos []*types.UTXO
	err := e.rpc.postJSON(ctx, "getutxos", "api/getutxos", map[string]any{"utxos": refs}, &utxos)
	if errors.Is(err, ErrEmptyResponse) {
		return []*types.UTXO{}, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return lo.Filter(utxos, func(utxo *types.UTXO, _ int) bool { return utxo != nil }), nil
}

func (e *ExplorerAdapter) GetAddressesTransactions(ctx context.Context, addresses []string) ([]*types.AddressTransactions, error) {
	if len(addresses) == 0 {
		return []*types.AddressTransactions{}, nil
	}

	var groups []*types.AddressTransactions
	err := e.rpc.postJSON(ctx, "getaddressesinfowithtransactions", "api/getaddressesinfowithtransactions", map[string]any{"addresses": addresses}, &groups)
	if errors.Is(err, ErrEmptyResponse) {
		return []*types.AddressTransactions{}, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return groups, nil
}

// ImportAddresses is a no-op, the explorer indexes every address.
func (e *ExplorerAdapter) ImportAddresses(context.Context, []string, bool) error {
	return nil
}

func (e *ExplorerAdapter) Transmit(ctx context.Context, signedTxHex string) (*types.TransmitResult, error) {
	var result types.TransmitResult
	err := e.rpc.postJSON(ctx, "transmit", "api/transmit", map[string]any{"txHex": signedTxHex}, &result)
	return transmitResult(signedTxHex, &result, err)
}

type explorerInfo struct {
	Blocks int64 `json:"blocks"`
}

// Height returns the best block height known by the explorer.
func (e *ExplorerAdapter) Height(ctx context.Context) (int64, error) {
	var info explorerInfo
	if err := e.rpc.postJSON(ctx, "getinfo", "api/getinfo", map[string]any{}, &info); err != nil {
		return 0, errors.WithStack(err)
	}
	return info.Blocks, nil
}

// OnConnect fires immediately, there is no sync phase.
func (e *ExplorerAdapter) OnConnect(_ context.Context, _ ExplorerProbe, fn ConnectHandler) {
	fn()
}

// OnProgress never fires.
func (e *ExplorerAdapter) OnProgress(context.Context, ExplorerProbe, ProgressHandler) {}

func (e *ExplorerAdapter) OnTransaction(kind EventKind, fn TransactionHandler) {
	e.on(kind.String(), fn)
}

func (e *ExplorerAdapter) Join(ctx context.Context, kind EventKind) error {
	return e.join(ctx, kind.String())
}

func (e *ExplorerAdapter) OnAddressTransaction(address string, fn TransactionHandler) {
	e.on(addressChannelPrefix+address, fn)
}

func (e *ExplorerAdapter) JoinAddress(ctx context.Context, address string) error {
	return e.join(ctx, addressChannelPrefix+address)
}

// Leave unsubscribes a joined channel. Registered handlers are kept.
func (e *ExplorerAdapter) Leave(ctx context.Context, channel string) error {
	e.mu.Lock()
	_, ok := e.joined[channel]
	delete(e.joined, channel)
	e.mu.Unlock()
	if !ok || e.pubsub == nil {
		return nil
	}
	return errors.WithStack(e.pubsub.Unsubscribe(ctx, channel))
}

// Close leaves every joined channel and closes the pub/sub connection.
func (e *ExplorerAdapter) Close() error {
	if e.pubsub == nil {
		return nil
	}
	e.mu.RLock()
	channels := lo.Keys(e.joined)
	e.mu.RUnlock()

	var errList []error
	for _, channel := range channels {
		if err := e.Leave(context.Background(), channel); err != nil {
			errList = append(errList, errors.Wrapf(err, "can't leave %q", channel))
		}
	}
	if err := e.pubsub.Close(); err != nil {
		errList = append(errList, errors.WithStack(err))
	}
	return errors.Join(errList...)
}

func (e *ExplorerAdapter) on(channel string, fn TransactionHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[channel] = append(e.handlers[channel], fn)
}

func (e *ExplorerAdapter) join(ctx context.Context, channel string) error {
	if e.pubsub == nil {
		return errors.Errorf("can't join %q, explorer has no pub/sub connection", channel)
	}

	e.mu.Lock()
	if _, ok := e.joined[channel]; ok {
		e.mu.Unlock()
		return nil
	}
	e.joined[channel] = struct{}{}
	e.mu.Unlock()

	ctx = logger.WithContext(ctx, slogx.String("package", "adapters"), slogx.Stringer("backend", BackendExplorer), slogx.String("channel", channel))
	ctx = context.WithoutCancel(ctx)
	if err := e.pubsub.Subscribe(ctx, channel, func(data []byte) { e.dispatch(ctx, channel, data) }); err != nil {
		e.mu.Lock()
		delete(e.joined, channel)
		e.mu.Unlock()
		return errors.Wrapf(err, "can't join channel %q", channel)
	}
	return nil
}

func (e *ExplorerAdapter) dispatch(ctx context.Context, channel string, data []byte) {
	envelopeKey := channel
	if strings.HasPrefix(channel, addressChannelPrefix) {
		envelopeKey = "transaction"
	}
	tx, err := unwrapTransaction(data, envelopeKey)
	if err != nil {
		logger.WarnContext(ctx, "Dropped malformed publication", slogx.Error(err))
		return
	}

	e.mu.RLock()
	handlers := append([]TransactionHandler(nil), e.handlers[channel]...)
	e.mu.RUnlock()
	for _, handler := range handlers {
		handler(tx)
	}
}
