package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"strata/pkg/leaselock"
	"strata/pkg/logger"
	"strata/pkg/store"
)

// RebuildLockKey guards graph rebuilds across worker replicas.
const RebuildLockKey = "graph_rebuild"

// ProcessRebuildMessage handles one rebuild trigger. The rebuild runs under
// a database lease so only one replica rebuilds at a time; a trigger that
// finds the lease busy is dropped, since the holder's rebuild already covers
// it. A nil locks client skips the lease.
func ProcessRebuildMessage(
	ctx context.Context,
	locks *leaselock.Client,
	gs *store.GraphStore,
	msg string,
) error {
	data := new(RebuildMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to unmarshal rebuild message: %w", err)
	}

	switch data.Reason {
	case ReasonClassificationRun, ReasonEdgeRefresh, ReasonContourApproved:
	default:
		logger.Warn("[Queue] Unknown rebuild reason, rebuilding anyway", "reason", data.Reason)
	}

	logger.Info("[Queue] Rebuilding graph", "reason", data.Reason, "requested_by", data.RequestedBy)

	rebuild := func(ctx context.Context) error {
		if _, err := gs.Rebuild(ctx); err != nil {
			return fmt.Errorf("failed to rebuild graph: %w", err)
		}
		return nil
	}

	if locks == nil {
		return rebuild(ctx)
	}

	err := locks.WithLease(ctx, RebuildLockKey, leaselock.Options{
		TTL: 10 * time.Minute,
	}, rebuild)
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Info("[Queue] Rebuild already in progress elsewhere, skipping")
		return nil
	}
	return err
}
