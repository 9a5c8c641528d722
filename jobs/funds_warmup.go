package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/providence-asso/providence/internal/funds"
)

const defaultWarmupMeetings = 6

// FundsWarmupJob pre-populates fund summary caches for recent
// meetings, so the first dashboard read after an invalidation does not
// pay the aggregation cost.
type FundsWarmupJob struct {
	Funds  *funds.Service
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewFundsWarmupJob wires dependencies for the warmup handler.
func NewFundsWarmupJob(fundsSvc *funds.Service, pool *pgxpool.Pool, logger *slog.Logger) *FundsWarmupJob {
	return &FundsWarmupJob{Funds: fundsSvc, Pool: pool, Logger: logger}
}

// Handle processes funds warmup tasks.
func (j *FundsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Funds == nil {
		return errors.New("funds warmup: handler not configured")
	}
	var payload FundsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Meetings <= 0 {
		payload.Meetings = defaultWarmupMeetings
	}

	meetingIDs, err := j.recentMeetings(ctx, payload.Meetings)
	if err != nil {
		j.logger().Error("load warmup meetings", slog.Any("error", err))
		return err
	}
	if len(meetingIDs) == 0 {
		j.logger().Info("no meetings to warm")
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, meetingID := range meetingIDs {
		for _, class := range []funds.Classification{funds.ClassSocial, funds.ClassMission} {
			g.Go(func() error {
				_, err := j.Funds.Summary(ctx, meetingID, class)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		j.logger().Error("warm fund summaries", slog.Any("error", err))
		return err
	}
	j.logger().Info("fund summaries warmed", slog.Int("meetings", len(meetingIDs)))
	return nil
}

func (j *FundsWarmupJob) recentMeetings(ctx context.Context, limit int) ([]int64, error) {
	rows, err := j.Pool.Query(ctx, `SELECT id FROM meetings ORDER BY meeting_date DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (j *FundsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
