package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/peerline/internal/model"
)

// PostgresRequestRepo はPostgreSQLを使用したリクエストリポジトリ。
type PostgresRequestRepo struct {
	db *sql.DB
}

// NewPostgresRequestRepo はPostgresRequestRepoを生成する。
func NewPostgresRequestRepo(db *sql.DB) *PostgresRequestRepo {
	return &PostgresRequestRepo{db: db}
}

// Create はリクエストを作成する。ヘルパー未アサインの場合はhelper_idをNULLで格納する。
func (r *PostgresRequestRepo) Create(ctx context.Context, request *model.Request) error {
	var helperID sql.NullString
	if request.HelperID != "" {
		helperID = sql.NullString{String: request.HelperID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO requests (id, session_id, token_id, blind_id, helper_id, answered, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		request.ID, request.SessionID, request.TokenID, request.BlindID,
		helperID, request.Answered, request.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

// FindByID は指定IDのリクエストを取得する。見つからない場合はnilを返す。
func (r *PostgresRequestRepo) FindByID(ctx context.Context, id string) (*model.Request, error) {
	request := &model.Request{}
	var helperID sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, token_id, blind_id, helper_id, answered, created_at
		 FROM requests
		 WHERE id = $1`,
		id,
	).Scan(
		&request.ID, &request.SessionID, &request.TokenID, &request.BlindID,
		&helperID, &request.Answered, &request.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}

	if helperID.Valid {
		request.HelperID = helperID.String
	}

	return request, nil
}

// compile-time interface check
var _ RequestRepository = (*PostgresRequestRepo)(nil)
