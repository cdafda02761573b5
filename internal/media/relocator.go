// Package media は画像の保存と外部画像の移設（リロケーション）を提供する。
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ogawa/contenthub/internal/security"
	"github.com/ogawa/contenthub/internal/slug"
)

// RelocatorService は外部画像の移設機能のインターフェース。
// インポート処理から使用される。
type RelocatorService interface {
	// Relocate は外部URLの画像を取得してローカルストレージへ保存し、公開パスを返す。
	// 取得失敗・画像以外・ローカル済みURLなどの場合は空文字列を返す（エラーは返さない）。
	Relocate(ctx context.Context, rawURL, ownerSlug string) (string, error)
}

// Relocator はRelocatorServiceの実装。
// 各移設は独立したベストエフォートであり、1枚の失敗が他に波及することはない。
type Relocator struct {
	store     BlobStore
	ssrfGuard security.SSRFGuardService
	timeout   time.Duration
	maxSize   int64
}

// NewRelocator はRelocatorの新しいインスタンスを生成する。
func NewRelocator(store BlobStore, ssrfGuard security.SSRFGuardService, timeout time.Duration, maxSize int64) *Relocator {
	return &Relocator{
		store:     store,
		ssrfGuard: ssrfGuard,
		timeout:   timeout,
		maxSize:   maxSize,
	}
}

// Relocate は外部URLの画像を取得してローカルストレージへ保存し、公開パスを返す。
// 次の場合は移設せず空文字列を返す（要件: 失敗はスキップであり中断ではない）:
// 空URL、ローカルURL（先頭スラッシュ）、data: URI、SSRFブロック、取得失敗、
// レスポンスのContent-Typeがimage/で始まらない場合、サイズ超過。
func (r *Relocator) Relocate(ctx context.Context, rawURL, ownerSlug string) (string, error) {
	if rawURL == "" || strings.HasPrefix(rawURL, "/") || strings.HasPrefix(rawURL, "data:") {
		return "", nil
	}

	if err := r.ssrfGuard.ValidateURL(rawURL); err != nil {
		slog.Warn("画像移設: SSRFブロック", "url", rawURL, "error", err)
		return "", nil
	}

	client := r.ssrfGuard.NewSafeClient(r.timeout, r.maxSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		slog.Warn("画像移設: リクエスト作成失敗", "url", rawURL, "error", err)
		return "", nil
	}
	req.Header.Set("User-Agent", "Contenthub/1.0 WXR Importer")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("画像移設: HTTPリクエスト失敗", "url", rawURL, "error", err)
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("画像移設: HTTPステータス異常", "url", rawURL, "status", resp.StatusCode)
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxSize+1))
	if err != nil {
		slog.Warn("画像移設: レスポンス読み取り失敗", "url", rawURL, "error", err)
		return "", nil
	}
	if int64(len(body)) > r.maxSize {
		slog.Warn("画像移設: サイズ超過", "url", rawURL, "size", len(body))
		return "", nil
	}

	contentType := resp.Header.Get("Content-Type")
	mimeType := extractMimeType(contentType)
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("画像移設: 画像以外のContent-Type", "url", rawURL, "contentType", contentType)
		return "", nil
	}

	name := buildFilename(rawURL, ownerSlug, mimeType)
	publicPath, err := r.store.SaveImage(body, name)
	if err != nil {
		slog.Warn("画像移設: 保存失敗", "url", rawURL, "error", err)
		return "", nil
	}

	slog.Info("画像移設完了", "url", rawURL, "path", publicPath, "size", len(body))
	return publicPath, nil
}

// ExtractImageURLs はHTMLから画像参照URLを収集する。
// imgタグのsrc属性値と、任意のタグのsrcset属性のカンマ区切りURLトークンを対象にし、
// data: URIを除外した上で初出順に重複排除する。
func ExtractImageURLs(body string) []string {
	var urls []string
	seen := make(map[string]bool)

	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || strings.HasPrefix(u, "data:") || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return urls
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		tn, hasAttr := tokenizer.TagName()
		if !hasAttr {
			continue
		}
		tagName := string(tn)

		for {
			key, val, more := tokenizer.TagAttr()
			switch strings.ToLower(string(key)) {
			case "src":
				if tagName == "img" {
					add(string(val))
				}
			case "srcset":
				// srcsetは "url 1x, url 2x" 形式。各トークンの先頭フィールドがURL
				for _, candidate := range strings.Split(string(val), ",") {
					fields := strings.Fields(candidate)
					if len(fields) > 0 {
						add(fields[0])
					}
				}
			}
			if !more {
				break
			}
		}
	}
}

// extractMimeType はContent-Typeヘッダーからメディアタイプを抽出する。
func extractMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	parts := strings.SplitN(contentType, ";", 2)
	return strings.TrimSpace(strings.ToLower(parts[0]))
}

// mimeExtensions はMIMEタイプからファイル拡張子へのマッピング。
var mimeExtensions = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
	"image/avif":    "avif",
	"image/bmp":     "bmp",
	"image/x-icon":  "ico",
}

// extensionForMime はMIMEタイプから拡張子を導出する。未知のタイプはjpgにフォールバックする。
func extensionForMime(mimeType string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	return "jpg"
}

// buildFilename はタイムスタンプ・記事スラッグ・URLパス末尾から
// 衝突耐性のある保存名を組み立てる。
func buildFilename(rawURL, ownerSlug, mimeType string) string {
	base := "image"
	if parsed, err := url.Parse(rawURL); err == nil {
		name := path.Base(parsed.Path)
		name = strings.TrimSuffix(name, path.Ext(name))
		if s := slug.Make(name); s != "" {
			base = s
		}
	}
	if ownerSlug == "" {
		ownerSlug = "uploads"
	}
	return fmt.Sprintf("posts/%s/%d-%s.%s", ownerSlug, time.Now().Unix(), base, extensionForMime(mimeType))
}

// compile-time interface check
var _ RelocatorService = (*Relocator)(nil)
