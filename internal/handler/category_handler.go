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

// CategoryHandler はカテゴリ管理のHTTPハンドラー。
type CategoryHandler struct {
	categories repository.CategoryRepository
}

// NewCategoryHandler はCategoryHandlerを生成する。
func NewCategoryHandler(categories repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// categoryRequest はカテゴリ作成・更新リクエストのボディ。
type categoryRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// categoryResponse はカテゴリのAPIレスポンス。
type categoryResponse struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListCategories はカテゴリ一覧を返す。
// GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]categoryResponse, len(categories))
	for i, c := range categories {
		results[i] = toCategoryResponse(c)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": results})
}

// GetCategory はカテゴリ詳細を返す。
// GET /api/categories/:slug
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	category, err := h.categories.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if category == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindCategory, s))
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

// CreateCategory はカテゴリを新規作成する。
// POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
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
			Message:  "カテゴリ名は必須です。",
			Category: "validation",
			Action:   "nameフィールドを指定してください。",
		})
		return
	}

	exists, err := h.categories.Exists(r.Context(), req.Slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if exists {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewSlugConflictError(model.KindCategory, req.Slug))
		return
	}

	category := req.toModel()
	if err := h.categories.Create(r.Context(), category); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// UpdateCategory は既存カテゴリを更新する。
// PUT /api/categories/:slug
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	existing, err := h.categories.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindCategory, s))
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	category := req.toModel()
	category.Slug = s
	if category.Name == "" {
		category.Name = existing.Name
	}

	if err := h.categories.Update(r.Context(), category); err != nil {
		handleServiceError(w, err)
		return
	}

	updated, err := h.categories.FindBySlug(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(updated))
}

// DeleteCategory はカテゴリを削除する。参照していた記事のカテゴリはNULLに戻る。
// DELETE /api/categories/:slug
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")

	exists, err := h.categories.Exists(r.Context(), s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !exists {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(model.KindCategory, s))
		return
	}

	if err := h.categories.Delete(r.Context(), s); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (req *categoryRequest) toModel() *model.Category {
	return &model.Category{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
	}
}

func toCategoryResponse(category *model.Category) categoryResponse {
	return categoryResponse{
		Slug:        category.Slug,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
