package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ogawa/contenthub/internal/model"
	"github.com/ogawa/contenthub/internal/repository"
	"github.com/ogawa/contenthub/internal/slug"
)

// PostHandler は記事管理のHTTPハンドラー。
type PostHandler struct {
	posts repository.PostRepository
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(posts repository.PostRepository) *PostHandler {
	return &PostHandler{posts: posts}
}

// postRequest は記事作成・更新リクエストのボディ。
type postRequest struct {
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	AuthorSlug      string     `json:"author_slug"`
	CategorySlug    string     `json:"category_slug"`
	PublishedAt     *time.Time `json:"published_at"`
	Thumbnail       string     `json:"thumbnail"`
	MetaDescription string     `json:"meta_description"`
	Content         string     `json:"content"`
}

// postResponse は記事のAPIレスポンス。
type postResponse struct {
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	AuthorSlug      string     `json:"author_slug,omitempty"`
	CategorySlug    string     `json:"category_slug,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Thumbnail       string     `json:"thumbnail,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	Content         string     `json:"content"`
	Draft           bool       `json:"draft"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListPosts は記事一覧を返す。
// GET /api/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]postResponse, len(posts))
	for i, p := range posts {
		results[i] = toPostResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": results})
}

// GetPost は記事詳細を返す。
// GET /api/posts/:slug
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	post, err := h.posts.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if post == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindPost, s))
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// CreatePost は記事を新規作成する。
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Slug == "" && req.Title != "" {
		req.Slug = slug.Make(req.Title)
	}
	if !slug.IsValid(req.Slug) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidSlugError(req.Slug))
		return
	}
	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "タイトルは必須です。",
			Category: "validation",
			Action:   "titleフィールドを指定してください。",
		})
		return
	}

	exists, err := h.posts.Exists(r.Context(), req.Slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if exists {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewSlugConflictError(model.KindPost, req.Slug))
		return
	}

	post := req.toModel()
	if err := h.posts.Create(r.Context(), post); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// UpdatePost は既存記事を更新する。
// PUT /api/posts/:slug
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	existing, err := h.posts.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindPost, s))
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	post := req.toModel()
	post.Slug = s // スラッグはURLで確定し、ボディでの変更は許可しない
	if post.Title == "" {
		post.Title = existing.Title
	}

	if err := h.posts.Update(r.Context(), post); err != nil {
		handleServiceError(w, err)
		return
	}

	updated, err := h.posts.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(updated))
}

// DeletePost は記事を削除する。
// DELETE /api/posts/:slug
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	exists, err := h.posts.Exists(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !exists {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindPost, s))
		return
	}

	if err := h.posts.Delete(r.Context(), s); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toModel はリクエストボディからドメインモデルに変換する。
func (req *postRequest) toModel() *model.Post {
	return &model.Post{
		Slug:            req.Slug,
		Title:           req.Title,
		AuthorSlug:      req.AuthorSlug,
		CategorySlug:    req.CategorySlug,
		PublishedAt:     req.PublishedAt,
		Thumbnail:       req.Thumbnail,
		MetaDescription: req.MetaDescription,
		Content:         req.Content,
	}
}

// toPostResponse はmodel.PostからAPIレスポンスに変換する。
func toPostResponse(post *model.Post) postResponse {
	return postResponse{
		Slug:            post.Slug,
		Title:           post.Title,
		AuthorSlug:      post.AuthorSlug,
		CategorySlug:    post.CategorySlug,
		PublishedAt:     post.PublishedAt,
		Thumbnail:       post.Thumbnail,
		MetaDescription: post.MetaDescription,
		Content:         post.Content,
		Draft:           post.IsDraft(),
		CreatedAt:       post.CreatedAt,
		UpdatedAt:       post.UpdatedAt,
	}
}
