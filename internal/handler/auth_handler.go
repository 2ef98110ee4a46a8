package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/peerline/internal/middleware"
	"github.com/hitoshi/peerline/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Revoke はトークンを失効させる。未知・失効済みトークンは何もしない。
	Revoke(ctx context.Context, value string) error
}

// AuthHandler はセッショントークン関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// logoutRequest はログアウトリクエストのボディ。
type logoutRequest struct {
	Token string `json:"token"`
}

// Logout はトークンを失効させる。
// PUT /auth/logout
//
// 失効は冪等で、未知のトークンや既に失効済みのトークンでも204を返す。
// トークンの存在有無をレスポンスで区別できないようにする。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewBadRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if err := h.service.Revoke(r.Context(), req.Token); err != nil {
		slog.Error("failed to revoke token", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
