// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, report, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeRequestNotFound = "REQUEST_NOT_FOUND"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
)

// NewBadRequestError は入力不備エラーを生成する。
// 認可より先に判定されるため、トークンの有効性に関わらず返ることがある。
func NewBadRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeBadRequest,
		Message:  fmt.Sprintf("リクエスト内容が不正です: %s", reason),
		Category: "validation",
		Action:   "token、request_id、reasonをすべて指定してください。",
	}
}

// NewUnauthorizedError は認可エラーを生成する。
// トークンが未指定・未知・失効済みのいずれでも同じエラーを返す。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "セッショントークンが無効です。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewRequestNotFoundError はリクエスト未検出エラーを生成する。
func NewRequestNotFoundError(requestID string) *APIError {
	return &APIError{
		Code:     ErrCodeRequestNotFound,
		Message:  fmt.Sprintf("指定されたリクエストが見つかりません: %s", requestID),
		Category: "report",
		Action:   "リクエストIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
