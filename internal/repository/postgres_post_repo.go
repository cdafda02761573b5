package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ogawa/contenthub/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// Exists は指定スラッグの記事が存在するかを返す。
func (r *PostgresPostRepo) Exists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`,
		slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("記事の存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// FindBySlug は指定スラッグの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post := &model.Post{}
	var authorSlug, categorySlug, thumbnail, metaDescription sql.NullString
	var publishedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT slug, title, author_slug, category_slug, published_at,
		        thumbnail, meta_description, content, created_at, updated_at
		 FROM posts WHERE slug = $1`,
		slug,
	).Scan(
		&post.Slug, &post.Title, &authorSlug, &categorySlug, &publishedAt,
		&thumbnail, &metaDescription, &post.Content, &post.CreatedAt, &post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}

	post.AuthorSlug = nullStringValue(authorSlug)
	post.CategorySlug = nullStringValue(categorySlug)
	post.Thumbnail = nullStringValue(thumbnail)
	post.MetaDescription = nullStringValue(metaDescription)
	if publishedAt.Valid {
		t := publishedAt.Time
		post.PublishedAt = &t
	}

	return post, nil
}

// List は全記事を更新日時の降順で返す。
func (r *PostgresPostRepo) List(ctx context.Context) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slug, title, author_slug, category_slug, published_at,
		        thumbnail, meta_description, content, created_at, updated_at
		 FROM posts ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post := &model.Post{}
		var authorSlug, categorySlug, thumbnail, metaDescription sql.NullString
		var publishedAt sql.NullTime

		if err := rows.Scan(
			&post.Slug, &post.Title, &authorSlug, &categorySlug, &publishedAt,
			&thumbnail, &metaDescription, &post.Content, &post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("記事一覧の読み取りに失敗しました: %w", err)
		}

		post.AuthorSlug = nullStringValue(authorSlug)
		post.CategorySlug = nullStringValue(categorySlug)
		post.Thumbnail = nullStringValue(thumbnail)
		post.MetaDescription = nullStringValue(metaDescription)
		if publishedAt.Valid {
			t := publishedAt.Time
			post.PublishedAt = &t
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の走査に失敗しました: %w", err)
	}

	return posts, nil
}

// Create は記事を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	var publishedAt sql.NullTime
	if post.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *post.PublishedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (slug, title, author_slug, category_slug, published_at,
		                    thumbnail, meta_description, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		post.Slug, post.Title, nullString(post.AuthorSlug), nullString(post.CategorySlug),
		publishedAt, nullString(post.Thumbnail), nullString(post.MetaDescription),
		post.Content, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は既存記事を上書き更新する。
func (r *PostgresPostRepo) Update(ctx context.Context, post *model.Post) error {
	var publishedAt sql.NullTime
	if post.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *post.PublishedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET
		    title = $2, author_slug = $3, category_slug = $4, published_at = $5,
		    thumbnail = $6, meta_description = $7, content = $8, updated_at = $9
		 WHERE slug = $1`,
		post.Slug, post.Title, nullString(post.AuthorSlug), nullString(post.CategorySlug),
		publishedAt, nullString(post.Thumbnail), nullString(post.MetaDescription),
		post.Content, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定スラッグの記事を削除する。
func (r *PostgresPostRepo) Delete(ctx context.Context, slug string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("記事の削除に失敗しました: %w", err)
	}
	return nil
}

// nullString は空文字列をNULLに変換する。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullStringValue はNULL許容カラムの値を空文字列込みで取り出す。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
