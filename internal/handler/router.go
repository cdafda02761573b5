package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ogawa/contenthub/internal/importer"
	"github.com/ogawa/contenthub/internal/media"
	"github.com/ogawa/contenthub/internal/metrics"
	"github.com/ogawa/contenthub/internal/middleware"
	"github.com/ogawa/contenthub/internal/repository"
)

// Pinger はヘルスチェックで使用するデータベース疎通確認のインターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// コンテンツ
	Posts      repository.PostRepository
	Authors    repository.AuthorRepository
	Categories repository.CategoryRepository

	// インポート
	ImportService importer.Service
	ImportMaxSize int64

	// メディア
	MediaStore   media.BlobStore
	MediaDir     string
	MediaMaxSize int64

	// 観測
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer
	HealthDB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → CORS → SecurityHeaders → RateLimit(General)
//
// /metrics と /media/* はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	postHandler := NewPostHandler(deps.Posts)
	authorHandler := NewAuthorHandler(deps.Authors)
	categoryHandler := NewCategoryHandler(deps.Categories)
	importHandler := NewImportHandler(deps.ImportService, deps.Metrics, deps.ImportMaxSize)
	mediaHandler := NewMediaHandler(deps.MediaStore, deps.MediaMaxSize)

	// --- レート制限の外のルート ---

	r.Get("/health", newHealthHandler(deps.HealthDB))
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	// アップロード済みメディアの静的配信
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(deps.MediaDir))))

	// --- APIルート ---

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// WXRインポート（実行コストが高いため専用レート制限を追加）
		r.With(deps.RateLimiter.ImportMiddleware()).
			Post("/api/import/wordpress", importHandler.ImportWordPress)

		// 記事管理
		r.Route("/api/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListPosts)
			r.Post("/", postHandler.CreatePost)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", postHandler.GetPost)
				r.Put("/", postHandler.UpdatePost)
				r.Delete("/", postHandler.DeletePost)
			})
		})

		// 著者管理
		r.Route("/api/authors", func(r chi.Router) {
			r.Get("/", authorHandler.ListAuthors)
			r.Post("/", authorHandler.CreateAuthor)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", authorHandler.GetAuthor)
				r.Put("/", authorHandler.UpdateAuthor)
				r.Delete("/", authorHandler.DeleteAuthor)
			})
		})

		// カテゴリ管理
		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)
			r.Post("/", categoryHandler.CreateCategory)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", categoryHandler.GetCategory)
				r.Put("/", categoryHandler.UpdateCategory)
				r.Delete("/", categoryHandler.DeleteCategory)
			})
		})

		// メディアアップロード
		r.Post("/api/media", mediaHandler.UploadImage)
	})

	return r
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"reason": "database unreachable",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
