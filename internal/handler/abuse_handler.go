// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/peerline/internal/middleware"
	"github.com/hitoshi/peerline/internal/model"
)

// AbuseServiceInterface は通報ハンドラーが必要とするサービスインターフェース。
type AbuseServiceInterface interface {
	// Report は通報を検証して記録する。
	Report(ctx context.Context, tokenValue, requestID, reason string) (*model.AbuseReport, error)
}

// AbuseHandler は通報のHTTPハンドラー。
type AbuseHandler struct {
	service AbuseServiceInterface
}

// NewAbuseHandler はAbuseHandlerを生成する。
func NewAbuseHandler(service AbuseServiceInterface) *AbuseHandler {
	return &AbuseHandler{service: service}
}

// reportRequest は通報リクエストのボディ。
// トークンはヘッダーやCookieではなくボディで受け取る。
type reportRequest struct {
	Token     string `json:"token"`
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

// reportResponse は通報成功時のレスポンス。
// 作成された通報の識別情報を返す。
type reportResponse struct {
	Status     string    `json:"status"`
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	ReportedAt time.Time `json:"reported_at"`
}

// Report は通報を処理する。
// POST /abuse/report
//
// 入力不備は認可より先に判定されるため、トークンが無効でも
// ボディの形状が不正なら400が返る。
func (h *AbuseHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewBadRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	report, err := h.service.Report(r.Context(), req.Token, req.RequestID, req.Reason)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(reportResponse{
		Status:     "reported",
		ID:         report.ID,
		RequestID:  report.RequestID,
		ReportedAt: report.ReportedAt,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, middleware.StatusCodeFor(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}
