// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー層から利用する。
type MetricsCollector interface {
	RecordImportRun(success bool)
	RecordImportDuration(duration time.Duration)
	RecordPostsImported(count int)
	RecordPostsSkipped(count int)
	RecordImagesRelocated(count int)
	RecordImportErrors(count int)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	importRuns      *prometheus.CounterVec
	importDuration  prometheus.Histogram
	postsImported   prometheus.Counter
	postsSkipped    prometheus.Counter
	imagesRelocated prometheus.Counter
	importErrors    prometheus.Counter
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		importRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contenthub_import_runs_total",
			Help: "WXRインポート実行の合計数（結果別）",
		}, []string{"result"}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contenthub_import_duration_seconds",
			Help:    "WXRインポート1回分の所要時間（秒）",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		postsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contenthub_posts_imported_total",
			Help: "インポートされた記事の合計数",
		}),
		postsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contenthub_posts_skipped_total",
			Help: "スキップされた記事の合計数",
		}),
		imagesRelocated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contenthub_images_relocated_total",
			Help: "ローカルへ移設された画像の合計数",
		}),
		importErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contenthub_import_errors_total",
			Help: "インポート中に記録されたエラーの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contenthub_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.importRuns,
		c.importDuration,
		c.postsImported,
		c.postsSkipped,
		c.imagesRelocated,
		c.importErrors,
		c.httpStatus,
	)

	return c
}

// RecordImportRun はインポート実行を結果別に記録する。
func (c *Collector) RecordImportRun(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	c.importRuns.WithLabelValues(result).Inc()
}

// RecordImportDuration はインポートの所要時間を記録する。
func (c *Collector) RecordImportDuration(duration time.Duration) {
	c.importDuration.Observe(duration.Seconds())
}

// RecordPostsImported はインポートされた記事数を記録する。
func (c *Collector) RecordPostsImported(count int) {
	c.postsImported.Add(float64(count))
}

// RecordPostsSkipped はスキップされた記事数を記録する。
func (c *Collector) RecordPostsSkipped(count int) {
	c.postsSkipped.Add(float64(count))
}

// RecordImagesRelocated は移設された画像数を記録する。
func (c *Collector) RecordImagesRelocated(count int) {
	c.imagesRelocated.Add(float64(count))
}

// RecordImportErrors は記録されたエラー数を記録する。
func (c *Collector) RecordImportErrors(count int) {
	c.importErrors.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
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
