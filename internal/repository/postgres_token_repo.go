package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/peerline/internal/model"
)

// PostgresTokenRepo はPostgreSQLを使用したトークンリポジトリ。
type PostgresTokenRepo struct {
	db *sql.DB
}

// NewPostgresTokenRepo はPostgresTokenRepoを生成する。
func NewPostgresTokenRepo(db *sql.DB) *PostgresTokenRepo {
	return &PostgresTokenRepo{db: db}
}

// Create はトークンをissued状態で作成する。
func (r *PostgresTokenRepo) Create(ctx context.Context, token *model.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (id, value, user_id, revoked, created_at)
		 VALUES ($1, $2, $3, FALSE, $4)`,
		token.ID, token.Value, token.UserID, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

// FindByValue はトークン文字列でトークンを検索する。見つからない場合はnilを返す。
func (r *PostgresTokenRepo) FindByValue(ctx context.Context, value string) (*model.Token, error) {
	token := &model.Token{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, value, user_id, revoked, created_at
		 FROM tokens
		 WHERE value = $1`,
		value,
	).Scan(&token.ID, &token.Value, &token.UserID, &token.Revoked, &token.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}

	return token, nil
}

// Revoke は指定トークン文字列のトークンを失効させる。
// 単一UPDATEでフラグを立てるため、以降のFindByValueが
// issued状態を観測することはない。未知のトークンには何もしない。
func (r *PostgresTokenRepo) Revoke(ctx context.Context, value string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET revoked = TRUE WHERE value = $1`,
		value,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// DeleteRevokedBefore は指定時刻より前に作成された失効済みトークンを削除する。
// クリーンアップジョブから利用する。削除件数を返す。
func (r *PostgresTokenRepo) DeleteRevokedBefore(ctx context.Context, interval string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE revoked = TRUE AND created_at < now() - $1::interval`,
		interval,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete revoked tokens: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ TokenRepository = (*PostgresTokenRepo)(nil)
