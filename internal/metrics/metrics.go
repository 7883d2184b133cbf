// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 結果ラベル値
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 認証サービスや登録サービスから利用する。
type MetricsCollector interface {
	RecordLogin(success bool)
	SetActiveSessions(n int)
	RecordEnrollment(op, result string)
	RecordHTTPStatus(route string, statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	logins         *prometheus.CounterVec
	activeSessions prometheus.Gauge
	enrollments    *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mergington_logins_total",
			Help: "教員ログイン試行の合計数（結果別）",
		}, []string{"result"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mergington_active_sessions",
			Help: "現在有効なセッション数",
		}),
		enrollments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mergington_enrollments_total",
			Help: "名簿操作の合計数（操作・結果別）",
		}, []string{"op", "result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mergington_http_responses_total",
			Help: "ルート・HTTPステータスコード別のレスポンス数",
		}, []string{"route", "status_code"}),
	}

	reg.MustRegister(
		c.logins,
		c.activeSessions,
		c.enrollments,
		c.httpStatus,
	)

	return c
}

// RecordLogin はログイン試行を記録する。
func (c *Collector) RecordLogin(success bool) {
	result := ResultFailure
	if success {
		result = ResultSuccess
	}
	c.logins.WithLabelValues(result).Inc()
}

// SetActiveSessions は有効セッション数を設定する。
func (c *Collector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
}

// RecordEnrollment は名簿操作を記録する。
// opは"signup"または"unregister"、resultは成功時ResultSuccess、失敗時はエラーコード。
func (c *Collector) RecordEnrollment(op, result string) {
	c.enrollments.WithLabelValues(op, result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
// routeはchiのルートパターン（例: /activities/{name}/signup）でカーディナリティを抑える。
func (c *Collector) RecordHTTPStatus(route string, statusCode int) {
	c.httpStatus.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

// Noop は何も記録しないMetricsCollector。メトリクス無効時とテストで使用する。
type Noop struct{}

func (Noop) RecordLogin(bool)                {}
func (Noop) SetActiveSessions(int)           {}
func (Noop) RecordEnrollment(string, string) {}
func (Noop) RecordHTTPStatus(string, int)    {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Noop{}
)
