package middleware

import "net/http"

// NewSecurityHeadersMiddleware は全レスポンスに防御的なヘッダーを付与する
// ミドルウェアを返す。このAPIはJSONのみを返すため埋め込み表示は常に拒否し、
// 相談・通報のURLがRefererで外部に渡らないようポリシーを絞る。
func NewSecurityHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			next.ServeHTTP(w, r)
		})
	}
}
