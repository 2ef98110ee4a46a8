// Package snapshot はヘルパー稼働状況の定期スナップショットジョブを提供する。
// 全ユーザーを取得して稼働判定エンジンにかけ、稼働中・スヌーズ外の
// ヘルパー数をメトリクスのゲージに発行する。
package snapshot

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/peerline/internal/availability"
	"github.com/hitoshi/peerline/internal/metrics"
	"github.com/hitoshi/peerline/internal/model"
	"github.com/hitoshi/peerline/internal/repository"
)

// Job はヘルパー稼働状況のスナップショットジョブ。
// 稼働判定は純粋関数なので、ジョブは取得→判定→ゲージ更新のみを行う。
type Job struct {
	users     repository.UserRepository
	engine    *availability.Engine
	collector metrics.MetricsCollector
	logger    *slog.Logger
}

// NewJob はJobを生成する。
func NewJob(
	users repository.UserRepository,
	engine *availability.Engine,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Job {
	return &Job{
		users:     users,
		engine:    engine,
		collector: collector,
		logger:    logger,
	}
}

// Start は指定間隔のティッカーでスナップショットジョブを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("稼働状況スナップショットジョブを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := j.RunOnce(ctx); err != nil {
		j.logger.Error("スナップショットの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("稼働状況スナップショットジョブを停止しました")
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.Error("スナップショットの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は現在時刻で稼働状況を1回判定し、ゲージを更新する。
func (j *Job) RunOnce(ctx context.Context) error {
	users, err := j.users.ListAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	helpers := make([]*model.User, 0, len(users))
	for _, u := range users {
		if u.Role == model.RoleHelper {
			helpers = append(helpers, u)
		}
	}

	nonSnoozing := availability.NonSnoozingUsers(helpers, now)
	awake := j.engine.AwakeUsers(helpers, now)

	j.collector.SetNonSnoozingUsers(len(nonSnoozing))
	j.collector.SetAwakeUsers(len(awake))

	j.logger.Info("稼働状況スナップショットを更新しました",
		slog.Int("helper_count", len(helpers)),
		slog.Int("non_snoozing", len(nonSnoozing)),
		slog.Int("awake", len(awake)),
	)

	return nil
}
