package backup

import (
	"context"

	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
)

const DefaultDaysToKeep = 30

// Taker is anything that can persist a snapshot and name where it went.
type Taker interface {
	Snapshot(ctx context.Context) (string, error)
}

type CleanupReport struct {
	datasync.CleanupResult
	Backup string `json:"backup,omitempty"`
}

// CleanOldData snapshots the store when snap is set and only then drops the
// old buckets. A failed snapshot leaves the data untouched.
func CleanOldData(ctx context.Context, engine *datasync.Engine, snap Taker, daysToKeep int) (CleanupReport, error) {
	if daysToKeep <= 0 {
		daysToKeep = DefaultDaysToKeep
	}

	var rep CleanupReport
	if snap != nil {
		key, err := snap.Snapshot(ctx)
		if err != nil {
			return rep, err
		}
		rep.Backup = key
	}

	rep.CleanupResult = engine.CleanOldData(ctx, daysToKeep)
	return rep, nil
}
