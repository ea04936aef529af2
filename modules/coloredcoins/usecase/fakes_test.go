package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gaze-network/coloredcoins-network/core/adapters"
	"github.com/gaze-network/coloredcoins-network/core/types"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) Has(prefix string) bool {
	for _, call := range l.Calls() {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

type fakeAdapter struct {
	adapters.Adapter
	log *callLog

	utxos        map[string][]*types.UTXO
	refs         map[types.OutPointRef]*types.UTXO
	transactions []*types.AddressTransactions
	importErr    error
	transmitErr  error
	txid         string
}

func (a *fakeAdapter) Backend() adapters.Backend { return adapters.BackendExplorer }

func (a *fakeAdapter) Status() types.SyncStatus { return types.SyncStatusSynced }

func (a *fakeAdapter) Connect(context.Context) error {
	a.log.add("connect")
	return nil
}

func (a *fakeAdapter) GetAddressesUtxos(_ context.Context, addresses []string) ([]*types.UTXO, error) {
	a.log.add("utxos %s", strings.Join(addresses, ","))
	var utxos []*types.UTXO
	for _, address := range addresses {
		utxos = append(utxos, a.utxos[address]...)
	}
	return utxos, nil
}

func (a *fakeAdapter) GetUtxos(_ context.Context, refs []types.OutPointRef) ([]*types.UTXO, error) {
	a.log.add("getutxos %d", len(refs))
	var utxos []*types.UTXO
	for _, ref := range refs {
		if utxo, ok := a.refs[ref]; ok {
			utxos = append(utxos, utxo)
		}
	}
	return utxos, nil
}

func (a *fakeAdapter) GetAddressesTransactions(_ context.Context, addresses []string) ([]*types.AddressTransactions, error) {
	a.log.add("transactions %s", strings.Join(addresses, ","))
	return a.transactions, nil
}

func (a *fakeAdapter) ImportAddresses(_ context.Context, addresses []string, reindex bool) error {
	a.log.add("import %s %t", strings.Join(addresses, ","), reindex)
	return a.importErr
}

func (a *fakeAdapter) Transmit(_ context.Context, signedTxHex string) (*types.TransmitResult, error) {
	a.log.add("transmit %s", signedTxHex)
	if a.transmitErr != nil {
		return nil, a.transmitErr
	}
	return &types.TransmitResult{Txid: a.txid}, nil
}

type fakeWallet struct {
	log        *callLog
	mu         sync.Mutex
	addresses  []string
	onRegister []func(string)
}

func (w *fakeWallet) GetAddresses(context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.addresses...), nil
}

func (w *fakeWallet) Sign(_ context.Context, txHex string) (string, error) {
	w.log.add("sign %s", txHex)
	return "signed-" + txHex, nil
}

func (w *fakeWallet) Discover() {}

func (w *fakeWallet) OnRegisterAddress(fn func(address string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onRegister = append(w.onRegister, fn)
}

func (w *fakeWallet) register(address string) {
	w.mu.Lock()
	w.addresses = append(w.addresses, address)
	handlers := w.onRegister
	w.mu.Unlock()
	for _, fn := range handlers {
		fn(address)
	}
}

type fakeBuilder struct {
	log      *callLog
	requests []*types.AssetOperationRequest
	built    *types.BuiltTransaction
	err      error
}

func (b *fakeBuilder) build(kind string, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	b.log.add("build %s", kind)
	b.requests = append(b.requests, req)
	return b.built, b.err
}

func (b *fakeBuilder) BuildIssue(_ context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	return b.build("issue", req)
}

func (b *fakeBuilder) BuildSend(_ context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	return b.build("send", req)
}

func (b *fakeBuilder) BuildBurn(_ context.Context, req *types.AssetOperationRequest) (*types.BuiltTransaction, error) {
	return b.build("burn", req)
}

type fakeMetadata struct {
	log      *callLog
	uploaded []*types.MetadataDocument
}

func (m *fakeMetadata) Upload(_ context.Context, doc *types.MetadataDocument) (*types.MetadataRef, error) {
	m.log.add("upload")
	m.uploaded = append(m.uploaded, doc)
	return &types.MetadataRef{TorrentHash: "th", Sha1: "th", Sha2: "sha2"}, nil
}

func (m *fakeMetadata) Seed(_ context.Context, torrentHash string) error {
	m.log.add("seed %s", torrentHash)
	return nil
}

func (m *fakeMetadata) Download(_ context.Context, torrentHash string) (*types.MetadataDocument, error) {
	return &types.MetadataDocument{Data: &types.Metadata{AssetName: torrentHash}}, nil
}

type fakeRPC struct {
	log       *callLog
	responses map[string]string
}

func (r *fakeRPC) Get(_ context.Context, method string, params []string, out any) error {
	key := strings.Join(append([]string{method}, params...), "/")
	r.log.add("rpc %s", key)
	raw, ok := r.responses[key]
	if !ok {
		return fmt.Errorf("no response for %s", key)
	}
	return json.Unmarshal([]byte(raw), out)
}

type fixture struct {
	log      *callLog
	adapter  *fakeAdapter
	wallet   *fakeWallet
	builder  *fakeBuilder
	metadata *fakeMetadata
	rpc      *fakeRPC
	usecase  *Usecase
}

func newFixture(walletAddresses ...string) *fixture {
	log := &callLog{}
	f := &fixture{
		log:      log,
		adapter:  &fakeAdapter{log: log, utxos: map[string][]*types.UTXO{}, refs: map[types.OutPointRef]*types.UTXO{}, txid: "txid-1"},
		wallet:   &fakeWallet{log: log, addresses: walletAddresses},
		builder:  &fakeBuilder{log: log, built: &types.BuiltTransaction{TxHex: "unsigned", AssetId: "La1"}},
		metadata: &fakeMetadata{log: log},
		rpc:      &fakeRPC{log: log, responses: map[string]string{}},
	}
	f.usecase = New(context.Background(), Dependencies{
		Adapter:  f.adapter,
		Wallet:   f.wallet,
		Builder:  f.builder,
		Metadata: f.metadata,
		RPC:      f.rpc,
	}, Options{Reindex: true})
	return f
}

func utxo(txid string, index uint32, address string, assets ...types.AssetSlice) *types.UTXO {
	return &types.UTXO{
		Txid:         txid,
		Index:        index,
		Value:        5000,
		ScriptPubKey: types.ScriptPubKey{Addresses: []string{address}},
		Assets:       assets,
	}
}
