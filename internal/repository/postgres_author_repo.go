package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ogawa/contenthub/internal/model"
)

// PostgresAuthorRepo はPostgreSQLを使用した著者リポジトリ。
type PostgresAuthorRepo struct {
	db *sql.DB
}

// NewPostgresAuthorRepo はPostgresAuthorRepoを生成する。
func NewPostgresAuthorRepo(db *sql.DB) *PostgresAuthorRepo {
	return &PostgresAuthorRepo{db: db}
}

// Exists は指定スラッグの著者が存在するかを返す。
func (r *PostgresAuthorRepo) Exists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM authors WHERE slug = $1)`,
		slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("著者の存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// FindBySlug は指定スラッグの著者を取得する。見つからない場合はnilを返す。
func (r *PostgresAuthorRepo) FindBySlug(ctx context.Context, slug string) (*model.Author, error) {
	author := &model.Author{}
	var role, bio, avatar sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT slug, name, role, bio, avatar, created_at, updated_at
		 FROM authors WHERE slug = $1`,
		slug,
	).Scan(&author.Slug, &author.Name, &role, &bio, &avatar, &author.CreatedAt, &author.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("著者の取得に失敗しました: %w", err)
	}

	author.Role = nullStringValue(role)
	author.Bio = nullStringValue(bio)
	author.Avatar = nullStringValue(avatar)

	return author, nil
}

// List は全著者を名前の昇順で返す。
func (r *PostgresAuthorRepo) List(ctx context.Context) ([]*model.Author, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slug, name, role, bio, avatar, created_at, updated_at
		 FROM authors ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("著者一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var authors []*model.Author
	for rows.Next() {
		author := &model.Author{}
		var role, bio, avatar sql.NullString
		if err := rows.Scan(&author.Slug, &author.Name, &role, &bio, &avatar, &author.CreatedAt, &author.UpdatedAt); err != nil {
			return nil, fmt.Errorf("著者一覧の読み取りに失敗しました: %w", err)
		}
		author.Role = nullStringValue(role)
		author.Bio = nullStringValue(bio)
		author.Avatar = nullStringValue(avatar)
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("著者一覧の走査に失敗しました: %w", err)
	}

	return authors, nil
}

// Create は著者を作成する。
func (r *PostgresAuthorRepo) Create(ctx context.Context, author *model.Author) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO authors (slug, name, role, bio, avatar, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		author.Slug, author.Name, nullString(author.Role), nullString(author.Bio),
		nullString(author.Avatar), author.CreatedAt, author.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("著者の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は既存著者を上書き更新する。
func (r *PostgresAuthorRepo) Update(ctx context.Context, author *model.Author) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE authors SET name = $2, role = $3, bio = $4, avatar = $5, updated_at = $6
		 WHERE slug = $1`,
		author.Slug, author.Name, nullString(author.Role), nullString(author.Bio),
		nullString(author.Avatar), author.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("著者の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定スラッグの著者を削除する。
func (r *PostgresAuthorRepo) Delete(ctx context.Context, slug string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("著者の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AuthorRepository = (*PostgresAuthorRepo)(nil)
