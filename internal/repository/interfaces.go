// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/peerline/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateSchedule はユーザーのスケジュール関連フィールド
	// （utc_offset, wake_up, go_to_sleep, available_from）を更新する。
	UpdateSchedule(ctx context.Context, user *model.User) error

	// ListAll は全ユーザーを返す。
	// 稼働状態の判定はクエリ時点のスナップショットに対して行うため、
	// キャッシュは行わず呼び出しごとに読み直す。
	ListAll(ctx context.Context) ([]*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するtokens、requests、abuse_reportsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// TokenRepository はセッショントークンの永続化インターフェース。
// トークンの状態遷移は issued --revoke--> revoked のみ。
type TokenRepository interface {
	// Create はトークンをissued状態で作成する。
	Create(ctx context.Context, token *model.Token) error

	// FindByValue はトークン文字列でトークンを検索する。
	// 見つからない場合はnilを返す。失効済みトークンも返す（判定は呼び出し側）。
	FindByValue(ctx context.Context, value string) (*model.Token, error)

	// Revoke は指定トークン文字列のトークンを失効させる。
	// 未知または失効済みのトークンに対しては何もしない（冪等）。
	Revoke(ctx context.Context, value string) error
}

// RequestRepository はセッションリクエストの永続化インターフェース。
type RequestRepository interface {
	// Create はリクエストを作成する。
	Create(ctx context.Context, request *model.Request) error

	// FindByID は指定IDのリクエストを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Request, error)
}

// AbuseReportRepository は通報データの永続化インターフェース。
type AbuseReportRepository interface {
	// Create は通報を作成する。
	// 追記とカウントはストレージ層で原子的に行われるため、
	// 同一ヘルパーへの並行通報でもカウントが失われることはない。
	Create(ctx context.Context, report *model.AbuseReport) error

	// CountByHelperID は指定ヘルパーに紐付く通報数を返す。
	CountByHelperID(ctx context.Context, helperID string) (int, error)

	// ListByHelperID は指定ヘルパーの通報一覧をreported_at昇順で返す。
	ListByHelperID(ctx context.Context, helperID string) ([]*model.AbuseReport, error)
}
