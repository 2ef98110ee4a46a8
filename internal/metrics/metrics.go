// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 通報サービスやスナップショットワーカーから利用する。
type MetricsCollector interface {
	RecordReportSubmitted()
	RecordReportRejected(reason string)
	SetNonSnoozingUsers(count int)
	SetAwakeUsers(count int)
	RecordAvailabilityLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	reportsSubmitted    prometheus.Counter
	reportsRejected     *prometheus.CounterVec
	nonSnoozingUsers    prometheus.Gauge
	awakeUsers          prometheus.Gauge
	availabilityLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peerline_abuse_reports_submitted_total",
			Help: "受理された通報の合計数",
		}),
		reportsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peerline_abuse_reports_rejected_total",
			Help: "拒否された通報の理由別合計数",
		}, []string{"reason"}),
		nonSnoozingUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "peerline_non_snoozing_users",
			Help: "直近スナップショット時点でスヌーズ中でないユーザー数",
		}),
		awakeUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "peerline_awake_users",
			Help: "直近スナップショット時点で起床ウィンドウ内のユーザー数",
		}),
		availabilityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "peerline_availability_query_seconds",
			Help:    "稼働状態クエリのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reportsSubmitted,
		c.reportsRejected,
		c.nonSnoozingUsers,
		c.awakeUsers,
		c.availabilityLatency,
	)

	return c
}

// RecordReportSubmitted は通報の受理を記録する。
func (c *Collector) RecordReportSubmitted() {
	c.reportsSubmitted.Inc()
}

// RecordReportRejected は通報の拒否を理由付きで記録する。
// reasonにはbad_request、unauthorized、not_found等を渡す。
func (c *Collector) RecordReportRejected(reason string) {
	c.reportsRejected.WithLabelValues(reason).Inc()
}

// SetNonSnoozingUsers はスヌーズ中でないユーザー数を記録する。
func (c *Collector) SetNonSnoozingUsers(count int) {
	c.nonSnoozingUsers.Set(float64(count))
}

// SetAwakeUsers は起床ウィンドウ内のユーザー数を記録する。
func (c *Collector) SetAwakeUsers(count int) {
	c.awakeUsers.Set(float64(count))
}

// RecordAvailabilityLatency は稼働状態クエリのレイテンシを記録する。
func (c *Collector) RecordAvailabilityLatency(duration time.Duration) {
	c.availabilityLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
