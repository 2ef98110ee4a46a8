package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/peerline/internal/availability"
	"github.com/hitoshi/peerline/internal/metrics"
	"github.com/hitoshi/peerline/internal/middleware"
	"github.com/hitoshi/peerline/internal/model"
)

// HelperLister は稼働判定対象のユーザー一覧取得インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type HelperLister interface {
	ListAll(ctx context.Context) ([]*model.User, error)
}

// AvailabilityHandler はヘルパー稼働状況のHTTPハンドラー。
type AvailabilityHandler struct {
	users     HelperLister
	engine    *availability.Engine
	collector metrics.MetricsCollector
}

// NewAvailabilityHandler はAvailabilityHandlerを生成する。
func NewAvailabilityHandler(users HelperLister, engine *availability.Engine, collector metrics.MetricsCollector) *AvailabilityHandler {
	return &AvailabilityHandler{
		users:     users,
		engine:    engine,
		collector: collector,
	}
}

// awakeHelpersResponse は稼働中ヘルパーのスナップショットレスポンス。
type awakeHelpersResponse struct {
	AwakeCount       int      `json:"awake_count"`
	NonSnoozingCount int      `json:"non_snoozing_count"`
	HelperIDs        []string `json:"helper_ids"`
}

// ListAwakeHelpers は現時点で稼働中のヘルパーのスナップショットを返す。
// GET /api/helpers/awake
//
// 結果はキャッシュせず、呼び出しごとに現在時刻で再計算する。
func (h *AvailabilityHandler) ListAwakeHelpers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list users", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	now := time.Now()

	helpers := filterHelpers(users)
	nonSnoozing := availability.NonSnoozingUsers(helpers, now)
	awake := h.engine.AwakeUsers(helpers, now)

	ids := make([]string, 0, len(awake))
	for _, u := range awake {
		ids = append(ids, u.ID)
	}

	h.collector.RecordAvailabilityLatency(time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(awakeHelpersResponse{
		AwakeCount:       len(awake),
		NonSnoozingCount: len(nonSnoozing),
		HelperIDs:        ids,
	})
}

// filterHelpers はヘルパーロールのユーザーのみを返す。
func filterHelpers(users []*model.User) []*model.User {
	helpers := make([]*model.User, 0, len(users))
	for _, u := range users {
		if u.Role == model.RoleHelper {
			helpers = append(helpers, u)
		}
	}
	return helpers
}
