// Package repository はコンテンツ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/ogawa/contenthub/internal/model"
)

// PostRepository は記事データの永続化インターフェース。
// スラッグが主キーであり、先勝ち（既存スラッグへの上書きは行わない）。
type PostRepository interface {
	// Exists は指定スラッグの記事が存在するかを返す。
	Exists(ctx context.Context, slug string) (bool, error)

	// FindBySlug は指定スラッグの記事を取得する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)

	// List は全記事を更新日時の降順で返す。
	List(ctx context.Context) ([]*model.Post, error)

	// Create は記事を作成する。
	Create(ctx context.Context, post *model.Post) error

	// Update は既存記事を上書き更新する。
	Update(ctx context.Context, post *model.Post) error

	// Delete は指定スラッグの記事を削除する。
	Delete(ctx context.Context, slug string) error
}

// AuthorRepository は著者データの永続化インターフェース。
type AuthorRepository interface {
	// Exists は指定スラッグの著者が存在するかを返す。
	Exists(ctx context.Context, slug string) (bool, error)

	// FindBySlug は指定スラッグの著者を取得する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Author, error)

	// List は全著者を名前の昇順で返す。
	List(ctx context.Context) ([]*model.Author, error)

	// Create は著者を作成する。
	Create(ctx context.Context, author *model.Author) error

	// Update は既存著者を上書き更新する。
	Update(ctx context.Context, author *model.Author) error

	// Delete は指定スラッグの著者を削除する。
	Delete(ctx context.Context, slug string) error
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// Exists は指定スラッグのカテゴリが存在するかを返す。
	Exists(ctx context.Context, slug string) (bool, error)

	// FindBySlug は指定スラッグのカテゴリを取得する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)

	// List は全カテゴリを名前の昇順で返す。
	List(ctx context.Context) ([]*model.Category, error)

	// Create はカテゴリを作成する。
	Create(ctx context.Context, category *model.Category) error

	// Update は既存カテゴリを上書き更新する。
	Update(ctx context.Context, category *model.Category) error

	// Delete は指定スラッグのカテゴリを削除する。
	Delete(ctx context.Context, slug string) error
}
