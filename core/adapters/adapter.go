// Package adapters implements the chain backends used to read wallet state,
// broadcast transactions and receive chain events.
package adapters

import (
	"context"

	"github.com/gaze-network/coloredcoins-network/core/types"
)

type Backend string

const (
	BackendExplorer Backend = "explorer"
	BackendFullNode Backend = "fullnode"
)

func (b Backend) String() string {
	return string(b)
}

// EventKind is a broad transaction stream published by a backend.
type EventKind string

const (
	EventNewTransaction        EventKind = "newtransaction"
	EventNewCCTransaction      EventKind = "newcctransaction"
	EventRevertedTransaction   EventKind = "revertedtransaction"
	EventRevertedCCTransaction EventKind = "revertedcctransaction"
)

func (k EventKind) String() string {
	return string(k)
}

type (
	TransactionHandler func(tx *types.Transaction)
	ProgressHandler    func(progress types.SyncProgress)
	ConnectHandler     func()
)

// ExplorerProbe reports the height of the reference chain a backend is compared against.
type ExplorerProbe interface {
	Height(ctx context.Context) (int64, error)
}

// Adapter is the capability set shared by every chain backend.
//
// Event handlers must be registered before the matching Join call. Backends
// that deliver events implicitly accept Join as a no-op.
type Adapter interface {
	Backend() Backend
	Status() types.SyncStatus

	// Connect opens the event connection of the backend.
	Connect(ctx context.Context) error

	// GetAddressesUtxos returns the unspent outputs of the addresses, each (txid, index) at most once.
	GetAddressesUtxos(ctx context.Context, addresses []string) ([]*types.UTXO, error)
	GetUtxos(ctx context.Context, refs []types.OutPointRef) ([]*types.UTXO, error)
	GetAddressesTransactions(ctx context.Context, addresses []string) ([]*types.AddressTransactions, error)
	ImportAddresses(ctx context.Context, addresses []string, reindex bool) error
	Transmit(ctx context.Context, signedTxHex string) (*types.TransmitResult, error)

	OnConnect(ctx context.Context, probe ExplorerProbe, fn ConnectHandler)
	OnProgress(ctx context.Context, probe ExplorerProbe, fn ProgressHandler)

	OnTransaction(kind EventKind, fn TransactionHandler)
	Join(ctx context.Context, kind EventKind) error

	OnAddressTransaction(address string, fn TransactionHandler)
	JoinAddress(ctx context.Context, address string) error

	Close() error
}
