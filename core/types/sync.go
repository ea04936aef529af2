package types

// SyncStatus is the synchronization state of a chain backend.
type SyncStatus int

const (
	SyncStatusDisconnected SyncStatus = iota
	SyncStatusConnecting
	SyncStatusSynced
)

func (s SyncStatus) String() string {
	switch s {
	case SyncStatusDisconnected:
		return "disconnected"
	case SyncStatusConnecting:
		return "connecting"
	case SyncStatusSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// NodeInfo is pushed by a full node after every processed block or mempool pass.
type NodeInfo struct {
	Blocks       int64  `json:"blocks"`
	Timestamp    int64  `json:"timestamp"`
	CCHeight     *int64 `json:"ccheight,omitempty"`
	CCTimestamp  *int64 `json:"cctimestamp,omitempty"`
	BitcoindBusy bool   `json:"bitcoindbusy"`
	Mempool      bool   `json:"mempool"`
}

// SyncProgress is reported while a backend catches up with the network.
type SyncProgress struct {
	// LastBlockTime is in milliseconds.
	LastBlockTime int64 `json:"lastBlockTime"`
	Mempool       bool  `json:"mempool"`
}
