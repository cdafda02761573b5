// Package model はドメインモデルを定義する。
package model

// ImportReport はWordPressインポート1回分の最終結果を表す。
// インポートは常にレポートを返し、部分的な失敗はカウンタとエラーリストに集約される。
type ImportReport struct {
	Success    bool          `json:"success"`
	Posts      PostsReport   `json:"posts"`
	Authors    SectionReport `json:"authors"`
	Categories SectionReport `json:"categories"`
	Errors     []string      `json:"errors"`
}

// PostsReport は記事セクションのインポート結果を表す。
type PostsReport struct {
	Imported       int      `json:"imported"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
	ImagesImported int      `json:"imagesImported"`
}

// SectionReport は著者・カテゴリセクションのインポート結果を表す。
type SectionReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// NewImportReport は空のImportReportを生成する。
// エラーリストはJSONでnullではなく[]として出力されるよう空スライスで初期化する。
func NewImportReport() *ImportReport {
	return &ImportReport{
		Success: true,
		Posts: PostsReport{
			Errors: []string{},
		},
		Errors: []string{},
	}
}

// AddFatal は致命的エラーを記録し、レポートを失敗状態にする。
func (r *ImportReport) AddFatal(msg string) {
	r.Success = false
	r.Errors = append(r.Errors, msg)
}

// AddError は回復可能なエラーを記録する。成功フラグは変更しない。
func (r *ImportReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddPostError は記事単位の回復可能なエラーを記録する。
func (r *ImportReport) AddPostError(msg string) {
	r.Posts.Errors = append(r.Posts.Errors, msg)
}
