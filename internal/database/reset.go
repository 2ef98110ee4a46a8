package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Reset は全テーブルを空にする。
// インテグレーションテストのセットアップ専用であり、
// 本番コードパスから呼び出してはならない。
func Reset(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`TRUNCATE abuse_reports, requests, tokens, users RESTART IDENTITY CASCADE`,
	)
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	return nil
}
