// Package cleanup は失効済みトークンの自動削除ジョブを提供する。
// 保持期間（デフォルト30日）を超過した失効済みトークンを日次バッチで削除する。
// 有効なトークンは保持期間に関わらず削除しない。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RevokedTokenDeleter は失効済みトークンの削除インターフェース。
// repository.PostgresTokenRepoが満たす。
type RevokedTokenDeleter interface {
	// DeleteRevokedBefore は指定期間より前に作成された失効済みトークンを削除し、
	// 削除件数を返す。
	DeleteRevokedBefore(ctx context.Context, interval string) (int64, error)
}

// CleanupJob は保持期間を超過した失効済みトークンの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	tokens        RevokedTokenDeleter
	logger        *slog.Logger
	RetentionDays int // 失効済みトークンの保持日数（デフォルト: 30）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの保持日数は30日。
func NewCleanupJob(tokens RevokedTokenDeleter, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		tokens:        tokens,
		logger:        logger,
		RetentionDays: 30,
	}
}

// Run は保持期間を超過した失効済みトークンを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d days", j.RetentionDays)

	deletedCount, err := j.tokens.DeleteRevokedBefore(ctx, interval)
	if err != nil {
		j.logger.Error("トークンクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("トークンクリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("トークンクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
