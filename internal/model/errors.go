// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, content, media, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeContentNotFound = "CONTENT_NOT_FOUND"
	ErrCodeSlugConflict    = "SLUG_CONFLICT"
	ErrCodeInvalidSlug     = "INVALID_SLUG"
	ErrCodeImportFileEmpty = "IMPORT_FILE_EMPTY"
	ErrCodeImportTooLarge  = "IMPORT_TOO_LARGE"
	ErrCodeMediaNotImage   = "MEDIA_NOT_IMAGE"
	ErrCodeMediaStoreFail  = "MEDIA_STORE_FAIL"
)

// NewContentNotFoundError はコンテンツ未検出エラーを生成する。
func NewContentNotFoundError(kind ContentKind, slug string) *APIError {
	return &APIError{
		Code:     ErrCodeContentNotFound,
		Message:  fmt.Sprintf("指定されたコンテンツが見つかりません: %s/%s", kind, slug),
		Category: "content",
		Action:   "スラッグを確認してください。",
	}
}

// NewSlugConflictError はスラッグ重複エラーを生成する。
func NewSlugConflictError(kind ContentKind, slug string) *APIError {
	return &APIError{
		Code:     ErrCodeSlugConflict,
		Message:  fmt.Sprintf("同じスラッグのコンテンツが既に存在します: %s/%s", kind, slug),
		Category: "content",
		Action:   "別のスラッグを指定するか、既存のコンテンツを更新してください。",
	}
}

// NewInvalidSlugError は無効なスラッグエラーを生成する。
func NewInvalidSlugError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSlug,
		Message:  fmt.Sprintf("無効なスラッグです: %s", reason),
		Category: "validation",
		Action:   "小文字英数字とハイフンのみのスラッグを指定してください。",
	}
}

// NewImportFileEmptyError はインポートファイル未指定エラーを生成する。
func NewImportFileEmptyError() *APIError {
	return &APIError{
		Code:     ErrCodeImportFileEmpty,
		Message:  "インポートするWXRファイルが指定されていません。",
		Category: "validation",
		Action:   "WordPressのエクスポートXMLをfileフィールドで送信してください。",
	}
}

// NewImportTooLargeError はインポートファイルのサイズ超過エラーを生成する。
func NewImportTooLargeError(maxBytes int64) *APIError {
	return &APIError{
		Code:     ErrCodeImportTooLarge,
		Message:  fmt.Sprintf("インポートファイルが大きすぎます（上限: %dバイト）。", maxBytes),
		Category: "validation",
		Action:   "エクスポートを期間などで分割してから再度お試しください。",
	}
}

// NewMediaNotImageError は画像以外のメディアアップロードエラーを生成する。
func NewMediaNotImageError(contentType string) *APIError {
	return &APIError{
		Code:     ErrCodeMediaNotImage,
		Message:  fmt.Sprintf("画像以外のファイルはアップロードできません: %s", contentType),
		Category: "media",
		Action:   "PNG、JPEG、GIF、WebPなどの画像ファイルを指定してください。",
	}
}

// NewMediaStoreFailError はメディア保存失敗エラーを生成する。
func NewMediaStoreFailError() *APIError {
	return &APIError{
		Code:     ErrCodeMediaStoreFail,
		Message:  "メディアファイルの保存に失敗しました。",
		Category: "media",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
