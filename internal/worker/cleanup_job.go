package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
)

// groupSweeper is the slice of the group service the cleanup job uses.
type groupSweeper interface {
	List(ctx context.Context) ([]*groups.Group, error)
	DeleteIfInactive(ctx context.Context, groupID string, ttl time.Duration) (bool, error)
}

// GroupCleanupJob sweeps groups that stayed empty past the TTL. The API arms
// an in-process timer for the common case; this job is the backstop for
// timers lost to restarts.
type GroupCleanupJob struct {
	sweeper groupSweeper
	logg    *logger.Logger
	ttl     time.Duration
}

// NewGroupCleanupJob builds the cleanup job.
func NewGroupCleanupJob(sweeper groupSweeper, logg *logger.Logger, ttl time.Duration) (*GroupCleanupJob, error) {
	if sweeper == nil {
		return nil, fmt.Errorf("group service required")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &GroupCleanupJob{sweeper: sweeper, logg: logg, ttl: ttl}, nil
}

func (j *GroupCleanupJob) Name() string {
	return "group-cleanup"
}

// Run sweeps every group once. Individual failures do not stop the sweep;
// they are aggregated and reported together.
func (j *GroupCleanupJob) Run(ctx context.Context) error {
	listed, err := j.sweeper.List(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	var errs error
	removed := 0
	for _, group := range listed {
		deleted, err := j.sweeper.DeleteIfInactive(ctx, group.ID, j.ttl)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sweep %s: %w", group.ID, err))
			continue
		}
		if deleted {
			removed++
		}
	}

	if j.logg != nil {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"swept":   len(listed),
			"removed": removed,
		}), "group cleanup sweep complete")
	}
	return errs
}
