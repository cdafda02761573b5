package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ogawa/contenthub/internal/model"
)

// PostgresCategoryRepo はPostgreSQLを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// Exists は指定スラッグのカテゴリが存在するかを返す。
func (r *PostgresCategoryRepo) Exists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`,
		slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("カテゴリの存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// FindBySlug は指定スラッグのカテゴリを取得する。見つからない場合はnilを返す。
func (r *PostgresCategoryRepo) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	category := &model.Category{}
	var description sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT slug, name, description, created_at, updated_at
		 FROM categories WHERE slug = $1`,
		slug,
	).Scan(&category.Slug, &category.Name, &description, &category.CreatedAt, &category.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}

	category.Description = nullStringValue(description)

	return category, nil
}

// List は全カテゴリを名前の昇順で返す。
func (r *PostgresCategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slug, name, description, created_at, updated_at
		 FROM categories ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category := &model.Category{}
		var description sql.NullString
		if err := rows.Scan(&category.Slug, &category.Name, &description, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("カテゴリ一覧の読み取りに失敗しました: %w", err)
		}
		category.Description = nullStringValue(description)
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の走査に失敗しました: %w", err)
	}

	return categories, nil
}

// Create はカテゴリを作成する。
func (r *PostgresCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (slug, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		category.Slug, category.Name, nullString(category.Description),
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("カテゴリの作成に失敗しました: %w", err)
	}
	return nil
}

// Update は既存カテゴリを上書き更新する。
func (r *PostgresCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, description = $3, updated_at = $4
		 WHERE slug = $1`,
		category.Slug, category.Name, nullString(category.Description), category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("カテゴリの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定スラッグのカテゴリを削除する。
func (r *PostgresCategoryRepo) Delete(ctx context.Context, slug string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
