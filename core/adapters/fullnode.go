package adapters

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/btcutils"
	"github.com/gaze-network/coloredcoins-network/pkg/httpclient"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
)

type FullNodeConfig struct {
	Host string

	// EventsURL is the websocket endpoint of the node events, default to ws(s)://<host>/events.
	EventsURL string

	// Probe gives the reference chain height the node is compared against.
	// Listeners registered later may bring their own.
	Probe   ExplorerProbe
	Timeout time.Duration
	Debug   bool
}

// FullNodeAdapter reads chain state from a full-node service and receives events
// pushed over a websocket. Every pushed event is delivered, joins are no-ops.
type FullNodeAdapter struct {
	rpc    *rpcClient
	socket *EventSocket
	sync   *syncTracker

	mu       sync.RWMutex
	handlers map[EventKind][]TransactionHandler
}

var _ Adapter = (*FullNodeAdapter)(nil)

func NewFullNodeAdapter(config FullNodeConfig) (*FullNodeAdapter, error) {
	client, err := httpclient.New(config.Host, httpclient.Config{
		Debug:   config.Debug,
		Timeout: config.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create full node http client")
	}

	eventsURL := config.EventsURL
	if eventsURL == "" {
		eventsURL = defaultEventsURL(client.BaseURL())
	}

	adapter := &FullNodeAdapter{
		rpc:      &rpcClient{backend: BackendFullNode, client: client},
		socket:   NewEventSocket(eventsURL),
		sync:     newSyncTracker(config.Probe),
		handlers: make(map[EventKind][]TransactionHandler),
	}
	adapter.socket.OnState(adapter.sync.setConnected)
	adapter.socket.On(eventInfo, adapter.onInfoEvent)
	adapter.socket.On(EventNewTransaction.String(), adapter.onTransactionEvent(EventNewTransaction))
	adapter.socket.On(EventNewCCTransaction.String(), adapter.onTransactionEvent(EventNewCCTransaction))
	return adapter, nil
}

func defaultEventsURL(base *url.URL) string {
	events := *base
	switch events.Scheme {
	case "https":
		events.Scheme = "wss"
	default:
		events.Scheme = "ws"
	}
	events.Path = strings.TrimSuffix(events.Path, "/") + "/events"
	events.RawQuery = ""
	return events.String()
}

func (f *FullNodeAdapter) Backend() Backend {
	return BackendFullNode
}

func (f *FullNodeAdapter) Status() types.SyncStatus {
	return f.sync.Status()
}

func (f *FullNodeAdapter) Connect(ctx context.Context) error {
	return errors.WithStack(f.socket.Connect(ctx))
}

// fullNodeUtxo is the utxo shape returned by the full node.
type fullNodeUtxo struct {
	Txid          string             `json:"txid"`
	Vout          uint32             `json:"vout"`
	Address       string             `json:"address"`
	ScriptPubKey  string             `json:"scriptPubKey"`
	Amount        json.Number        `json:"amount"`
	Confirmations int64              `json:"confirmations,omitempty"`
	BlockHeight   int64              `json:"blockheight,omitempty"`
	Assets        []types.AssetSlice `json:"assets,omitempty"`
}

// normalize converts the node utxo to the common shape, amount in base units.
func (u *fullNodeUtxo) normalize() (*types.UTXO, error) {
	value, err := btcutils.CoinsToBaseUnits(u.Amount.String())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid amount of utxo %s:%d", u.Txid, u.Vout)
	}
	utxo := &types.UTXO{
		Txid:        u.Txid,
		Index:       u.Vout,
		Value:       value,
		BlockHeight: u.BlockHeight,
		ScriptPubKey: types.ScriptPubKey{
			Hex: u.ScriptPubKey,
		},
		Assets: u.Assets,
	}
	if u.Address != "" {
		utxo.ScriptPubKey.Addresses = []string{u.Address}
	}
	return utxo, nil
}

func (f *FullNodeAdapter) GetAddressesUtxos(ctx context.Context, addresses []string) ([]*types.UTXO, error) {
	if len(addresses) == 0 {
		return []*types.UTXO{}, nil
	}

	var raw []*fullNodeUtxo
	err := f.rpc.postForm(ctx, "getAddressesUtxos", "getAddressesUtxos", formArray(url.Values{}, "addresses", addresses), &raw)
	if errors.Is(err, ErrEmptyResponse) {
		return []*types.UTXO{}, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return normalizeUtxos(raw)
}

func (f *FullNodeAdapter) GetUtxos(ctx context.Context, refs []types.OutPointRef) ([]*types.UTXO, error) {
	if len(refs) == 0 {
		return []*types.UTXO{}, nil
	}

	form := url.Values{}
	for i, ref := range refs {
		prefix := "utxos[" + strconv.Itoa(i) + "]"
		form.Set(prefix+"[txid]", ref.Txid)
		form.Set(prefix+"[index]", strconv.FormatUint(uint64(ref.Index), 10))
	}

	var raw []*fullNodeUtxo
	err := f.rpc.postForm(ctx, "getUtxos", "getUtxos", form, &raw)
	if errors.Is(err, ErrEmptyResponse) {
		return []*types.UTXO{}, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return normalizeUtxos(raw)
}

func normalizeUtxos(raw []*fullNodeUtxo) ([]*types.UTXO, error) {
	utxos := make([]*types.UTXO, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			continue
		}
		utxo, err := item.normalize()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		utxos = append(utxos, utxo)
	}
	return utxos, nil
}

// GetAddressesTransactions returns a single group holding every transaction.
func (f *FullNodeAdapter) GetAddressesTransactions(ctx context.Context, addresses []string) ([]*types.AddressTransactions, error) {
	if len(addresses) == 0 {
		return []*types.AddressTransactions{}, nil
	}

	var transactions []*types.Transaction
	err := f.rpc.postForm(ctx, "getAddressesTransactions", "getAddressesTransactions", formArray(url.Values{}, "addresses", addresses), &transactions)
	if errors.Is(err, ErrEmptyResponse) {
		return []*types.AddressTransactions{{Transactions: []*types.Transaction{}}}, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return []*types.AddressTransactions{{Transactions: transactions}}, nil
}

func (f *FullNodeAdapter) ImportAddresses(ctx context.Context, addresses []string, reindex bool) error {
	if len(addresses) == 0 {
		return nil
	}
	form := formArray(url.Values{}, "addresses", addresses)
	form.Set("reindex", strconv.FormatBool(reindex))

	err := f.rpc.postForm(ctx, "importAddresses", "importAddresses", form, nil)
	if errors.Is(err, ErrEmptyResponse) {
		return nil
	}
	return errors.WithStack(err)
}

func (f *FullNodeAdapter) Transmit(ctx context.Context, signedTxHex string) (*types.TransmitResult, error) {
	var result types.TransmitResult
	err := f.rpc.postForm(ctx, "transmit", "transmit", url.Values{"txHex": {signedTxHex}}, &result)
	return transmitResult(signedTxHex, &result, err)
}

func (f *FullNodeAdapter) OnConnect(ctx context.Context, probe ExplorerProbe, fn ConnectHandler) {
	f.sync.onConnect(ctx, probe, fn)
}

func (f *FullNodeAdapter) OnProgress(ctx context.Context, probe ExplorerProbe, fn ProgressHandler) {
	f.sync.onProgress(ctx, probe, fn)
}

// OnTransaction registers a push event handler. Reverted transactions are never
// pushed by the node, their handlers are accepted and never fire.
func (f *FullNodeAdapter) OnTransaction(kind EventKind, fn TransactionHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[kind] = append(f.handlers[kind], fn)
}

func (f *FullNodeAdapter) Join(context.Context, EventKind) error {
	return nil
}

// OnAddressTransaction is a no-op, the node has no per-address channels.
func (f *FullNodeAdapter) OnAddressTransaction(string, TransactionHandler) {}

func (f *FullNodeAdapter) JoinAddress(context.Context, string) error {
	return nil
}

func (f *FullNodeAdapter) Close() error {
	return errors.WithStack(f.socket.Close())
}

func (f *FullNodeAdapter) onInfoEvent(ctx context.Context, data json.RawMessage) {
	var info types.NodeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		logger.WarnContext(ctx, "Dropped malformed info event", slogx.Error(err))
		return
	}
	f.sync.handleInfo(ctx, info)
}

func (f *FullNodeAdapter) onTransactionEvent(kind EventKind) EventHandler {
	return func(ctx context.Context, data json.RawMessage) {
		tx, err := unwrapTransaction(data, kind.String())
		if err != nil {
			logger.WarnContext(ctx, "Dropped malformed transaction event", slogx.Error(err), slogx.Stringer("event", kind))
			return
		}

		f.mu.RLock()
		handlers := append([]TransactionHandler(nil), f.handlers[kind]...)
		f.mu.RUnlock()
		for _, handler := range handlers {
			handler(tx)
		}
	}
}
