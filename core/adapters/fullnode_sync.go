package adapters

import (
	"context"
	"sync"

	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
)

// syncTracker derives the sync state of a full node from its info pushes.
// Once synced the state is latched and later pushes are ignored.
type syncTracker struct {
	mu               sync.Mutex
	status           types.SyncStatus
	probe            ExplorerProbe
	connectHandlers  []ConnectHandler
	progressHandlers []ProgressHandler
}

func newSyncTracker(probe ExplorerProbe) *syncTracker {
	return &syncTracker{status: types.SyncStatusDisconnected, probe: probe}
}

func (s *syncTracker) Status() types.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *syncTracker) setConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == types.SyncStatusSynced {
		return
	}
	if connected {
		s.status = types.SyncStatusConnecting
	} else {
		s.status = types.SyncStatusDisconnected
	}
}

func (s *syncTracker) onConnect(_ context.Context, probe ExplorerProbe, fn ConnectHandler) {
	s.mu.Lock()
	if probe != nil {
		s.probe = probe
	}
	if s.status == types.SyncStatusSynced {
		s.mu.Unlock()
		fn()
		return
	}
	s.connectHandlers = append(s.connectHandlers, fn)
	s.mu.Unlock()
}

func (s *syncTracker) onProgress(_ context.Context, probe ExplorerProbe, fn ProgressHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if probe != nil {
		s.probe = probe
	}
	s.progressHandlers = append(s.progressHandlers, fn)
}

// handleInfo evaluates one info push against the explorer height.
func (s *syncTracker) handleInfo(ctx context.Context, info types.NodeInfo) {
	s.mu.Lock()
	probe := s.probe
	synced := s.status == types.SyncStatusSynced
	s.mu.Unlock()

	if synced || probe == nil {
		return
	}
	if info.BitcoindBusy {
		logger.DebugContext(ctx, "Skipped info push, node is busy")
		return
	}

	explorerHeight, err := probe.Height(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Can't get explorer height, skipped info push", slogx.Error(err))
		return
	}

	lastBlockHeight, lastBlockTime := info.Blocks, info.Timestamp
	if info.CCHeight != nil && *info.CCHeight < info.Blocks {
		lastBlockHeight = *info.CCHeight
		if info.CCTimestamp != nil {
			lastBlockTime = *info.CCTimestamp
		}
	}

	if lastBlockHeight < explorerHeight {
		progress := types.SyncProgress{
			LastBlockTime: lastBlockTime * 1000,
			Mempool:       info.Mempool,
		}
		s.mu.Lock()
		listeners := append([]ProgressHandler(nil), s.progressHandlers...)
		s.mu.Unlock()
		for _, fn := range listeners {
			fn(progress)
		}
		return
	}

	s.mu.Lock()
	if s.status == types.SyncStatusSynced {
		s.mu.Unlock()
		return
	}
	s.status = types.SyncStatusSynced
	listeners := s.connectHandlers
	s.connectHandlers = nil
	s.mu.Unlock()

	logger.InfoContext(ctx, "Full node is synced", slogx.Int64("height", lastBlockHeight), slogx.Int64("explorer_height", explorerHeight))
	for _, fn := range listeners {
		fn()
	}
}
