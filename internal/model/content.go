// Package model はドメインモデルを定義する。
package model

import "time"

// Post はブログ記事を表す。ContentはMarkdown形式で保持する。
type Post struct {
	Slug            string
	Title           string
	AuthorSlug      string
	CategorySlug    string
	PublishedAt     *time.Time
	Thumbnail       string
	MetaDescription string
	Content         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsDraft は記事が下書き（公開日未設定）かどうかを返す。
func (p *Post) IsDraft() bool {
	return p.PublishedAt == nil
}

// Author は記事の著者を表す。
type Author struct {
	Slug      string
	Name      string
	Role      string
	Bio       string
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category は記事のカテゴリを表す。
type Category struct {
	Slug        string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ContentKind はコンテンツの種別を表す。
type ContentKind string

const (
	// KindPost は記事コンテンツ。
	KindPost ContentKind = "post"
	// KindAuthor は著者コンテンツ。
	KindAuthor ContentKind = "author"
	// KindCategory はカテゴリコンテンツ。
	KindCategory ContentKind = "category"
)
