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

// AuthorHandler は著者管理のHTTPハンドラー。
type AuthorHandler struct {
	authors repository.AuthorRepository
}

// NewAuthorHandler はAuthorHandlerを生成する。
func NewAuthorHandler(authors repository.AuthorRepository) *AuthorHandler {
	return &AuthorHandler{authors: authors}
}

// authorRequest は著者作成・更新リクエストのボディ。
type authorRequest struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// authorResponse は著者のAPIレスポンス。
type authorResponse struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListAuthors は著者一覧を返す。
// GET /api/authors
func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authors.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]authorResponse, len(authors))
	for i, a := range authors {
		results[i] = toAuthorResponse(a)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"authors": results})
}

// GetAuthor は著者詳細を返す。
// GET /api/authors/:slug
func (h *AuthorHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	author, err := h.authors.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if author == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindAuthor, s))
		return
	}

	writeJSON(w, http.StatusOK, toAuthorResponse(author))
}

// CreateAuthor は著者を新規作成する。
// POST /api/authors
func (h *AuthorHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req authorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Slug == "" && req.Name != "" {
		req.Slug = slug.Make(req.Name)
	}
	if !slug.IsValid(req.Slug) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidSlugError(req.Slug))
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "著者名は必須です。",
			Category: "validation",
			Action:   "nameフィールドを指定してください。",
		})
		return
	}

	exists, err := h.authors.Exists(r.Context(), req.Slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if exists {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewSlugConflictError(model.KindAuthor, req.Slug))
		return
	}

	author := req.toModel()
	if err := h.authors.Create(r.Context(), author); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAuthorResponse(author))
}

// UpdateAuthor は既存著者を更新する。
// PUT /api/authors/:slug
func (h *AuthorHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	existing, err := h.authors.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindAuthor, s))
		return
	}

	var req authorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	author := req.toModel()
	author.Slug = s
	if author.Name == "" {
		author.Name = existing.Name
	}

	if err := h.authors.Update(r.Context(), author); err != nil {
		handleServiceError(w, err)
		return
	}

	updated, err := h.authors.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuthorResponse(updated))
}

// DeleteAuthor は著者を削除する。参照していた記事の著者はNULLに戻る。
// DELETE /api/authors/:slug
func (h *AuthorHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	exists, err := h.authors.Exists(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !exists {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindAuthor, s))
		return
	}

	if err := h.authors.Delete(r.Context(), s); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (req *authorRequest) toModel() *model.Author {
	return &model.Author{
		Slug:   req.Slug,
		Name:   req.Name,
		Role:   req.Role,
		Bio:    req.Bio,
		Avatar: req.Avatar,
	}
}

func toAuthorResponse(author *model.Author) authorResponse {
	return authorResponse{
		Slug:      author.Slug,
		Name:      author.Name,
		Role:      author.Role,
		Bio:       author.Bio,
		Avatar:    author.Avatar,
		CreatedAt: author.CreatedAt,
		UpdatedAt: author.UpdatedAt,
	}
}
