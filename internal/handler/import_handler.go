package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ogawa/contenthub/internal/importer"
	"github.com/ogawa/contenthub/internal/metrics"
	"github.com/ogawa/contenthub/internal/model"
)

// ImportHandler はWordPress WXRインポートのHTTPハンドラー。
type ImportHandler struct {
	service  importer.Service
	recorder metrics.MetricsCollector
	maxSize  int64
}

// NewImportHandler はImportHandlerを生成する。
// maxSizeはアップロードを受け付けるWXRファイルの上限バイト数。
func NewImportHandler(service importer.Service, recorder metrics.MetricsCollector, maxSize int64) *ImportHandler {
	return &ImportHandler{
		service:  service,
		recorder: recorder,
		maxSize:  maxSize,
	}
}

// ImportWordPress はWXRファイルを受け取りインポートを実行する。
// POST /api/import/wordpress（multipart/form-data、fileフィールド）
//
// インポートは常にレポートを返す。部分的な失敗はレポートのカウンタと
// エラーリストに現れ、HTTPステータスは200のままとなる。
func (h *ImportHandler) ImportWordPress(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge, model.NewImportTooLargeError(h.maxSize))
			return
		}
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewImportFileEmptyError())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge, model.NewImportTooLargeError(h.maxSize))
			return
		}
		handleServiceError(w, err)
		return
	}
	if len(data) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewImportFileEmptyError())
		return
	}

	start := time.Now()
	report := h.service.Run(r.Context(), data)
	h.recordReport(report, time.Since(start))

	writeJSON(w, http.StatusOK, report)
}

// recordReport はインポート結果をメトリクスに反映する。
func (h *ImportHandler) recordReport(report *model.ImportReport, duration time.Duration) {
	h.recorder.RecordImportRun(report.Success)
	h.recorder.RecordImportDuration(duration)
	h.recorder.RecordPostsImported(report.Posts.Imported)
	h.recorder.RecordPostsSkipped(report.Posts.Skipped)
	h.recorder.RecordImagesRelocated(report.Posts.ImagesImported)
	h.recorder.RecordImportErrors(len(report.Errors) + len(report.Posts.Errors))
}

// isBodyTooLarge はMaxBytesReaderによるサイズ超過エラーかを判定する。
func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	// multipart解析経由では*http.MaxBytesErrorがラップされず文字列になる場合がある
	return strings.Contains(err.Error(), "request body too large")
}
