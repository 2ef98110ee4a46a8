package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/peerline/internal/availability"
	"github.com/hitoshi/peerline/internal/metrics"
	"github.com/hitoshi/peerline/internal/middleware"
)

// HealthChecker はヘルスチェックのためのインターフェース。
// *sql.DB がそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// サービス
	AbuseService AbuseServiceInterface
	AuthService  AuthServiceInterface
	UserLister   HelperLister
	Engine       *availability.Engine
	Collector    metrics.MetricsCollector

	// ヘルスチェック
	HealthChecker HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → RateLimit(General)
//
// すべてのルートに同一のチェーンを適用する。認可はCookieやヘッダーでは
// なくリクエストボディのトークンで行うため、認可ミドルウェアは存在せず、
// 各サービスが処理の入口でトークンを検証する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(deps.RateLimiter.GeneralMiddleware())

	abuseHandler := NewAbuseHandler(deps.AbuseService)
	authHandler := NewAuthHandler(deps.AuthService)
	availabilityHandler := NewAvailabilityHandler(deps.UserLister, deps.Engine, deps.Collector)

	// 通報
	r.Post("/abuse/report", abuseHandler.Report)

	// セッション管理
	r.Put("/auth/logout", authHandler.Logout)

	// 稼働状況
	r.Get("/api/helpers/awake", availabilityHandler.ListAwakeHelpers)

	// ヘルスチェック
	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	return r
}

// NewHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
