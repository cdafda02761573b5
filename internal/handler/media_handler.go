package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogawa/contenthub/internal/media"
	"github.com/ogawa/contenthub/internal/model"
)

// MediaHandler は画像アップロードのHTTPハンドラー。
// インポート時の画像移設と同じBlobStoreに保存し、同じ公開パスで配信する。
type MediaHandler struct {
	store   media.BlobStore
	maxSize int64
}

// NewMediaHandler はMediaHandlerを生成する。
func NewMediaHandler(store media.BlobStore, maxSize int64) *MediaHandler {
	return &MediaHandler{
		store:   store,
		maxSize: maxSize,
	}
}

// mediaUploadResponse はアップロード成功時のレスポンス。
type mediaUploadResponse struct {
	URL string `json:"url"`
}

// 画像MIMEタイプと保存時の拡張子の対応。
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// UploadImage は画像ファイルを受け取り保存する。
// POST /api/media（multipart/form-data、fileフィールド）
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge, model.NewImportTooLargeError(h.maxSize))
			return
		}
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "アップロードする画像ファイルが指定されていません。",
			Category: "validation",
			Action:   "fileフィールドで画像を送信してください。",
		})
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

	// Content-Typeヘッダーは自己申告のため、先頭バイトから判定する
	mimeType := http.DetectContentType(data)
	ext, ok := imageExtensions[extractMimeType(mimeType)]
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnsupportedMediaType, model.NewMediaNotImageError(mimeType))
		return
	}

	name := buildUploadName(ext)
	publicPath, err := h.store.SaveImage(data, name)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewMediaStoreFailError())
		return
	}

	writeJSON(w, http.StatusCreated, mediaUploadResponse{URL: publicPath})
}

// extractMimeType はContent-Type値からパラメータを除いたMIMEタイプを返す。
func extractMimeType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}

// buildUploadName は衝突しない保存名を生成する。
// 日付ベースのサブディレクトリに置き、元のファイル名は使わない。
func buildUploadName(ext string) string {
	return fmt.Sprintf("uploads/%s/%s%s",
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		ext,
	)
}
