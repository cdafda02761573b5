// Package importer はWordPressエクスポート（WXR）のインポートパイプラインを提供する。
//
// インポートは1回の呼び出しで完結するバッチ処理で、カテゴリ→著者→記事の
// 順に逐次処理する。後続のパスは先行パスが構築した対応表に依存する。
// デコード失敗だけが致命的で、それ以外の失敗はすべてレコード単位に
// 隔離され、レポートのカウンタとエラーリストに集約される。
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogawa/contenthub/internal/markdown"
	"github.com/ogawa/contenthub/internal/media"
	"github.com/ogawa/contenthub/internal/model"
	"github.com/ogawa/contenthub/internal/repository"
	"github.com/ogawa/contenthub/internal/security"
	"github.com/ogawa/contenthub/internal/slug"
	"github.com/ogawa/contenthub/internal/wxr"
)

// wpTimeLayout はWordPressエクスポートの日時形式。
const wpTimeLayout = "2006-01-02 15:04:05"

// wpZeroTime は「日時なし」を表すWordPressのセンチネル値。
const wpZeroTime = "0000-00-00 00:00:00"

// metaDescriptionLimit はメタディスクリプションの最大文字数（ルーン数）。
const metaDescriptionLimit = 160

// Service はWXRインポート機能のインターフェース。
// ハンドラ層から使用される。
type Service interface {
	// Run はWXRテキストをインポートし、必ずImportReportを返す。
	// 致命的エラー（デコード失敗）もレポートとして表現される。
	Run(ctx context.Context, data []byte) *model.ImportReport
}

// Importer はServiceの実装。
// 依存はすべてコンストラクタで注入され、1回の実行で使う対応表は
// ローカル変数として持ち回るため、複数のインポートを並行に実行しても安全。
type Importer struct {
	posts      repository.PostRepository
	authors    repository.AuthorRepository
	categories repository.CategoryRepository
	relocator  media.RelocatorService
	stripper   security.HTMLStripperService
	converter  *markdown.Converter
}

// New はImporterの新しいインスタンスを生成する。
func New(
	posts repository.PostRepository,
	authors repository.AuthorRepository,
	categories repository.CategoryRepository,
	relocator media.RelocatorService,
	stripper security.HTMLStripperService,
	converter *markdown.Converter,
) *Importer {
	return &Importer{
		posts:      posts,
		authors:    authors,
		categories: categories,
		relocator:  relocator,
		stripper:   stripper,
		converter:  converter,
	}
}

// Run はWXRテキストをインポートし、必ずImportReportを返す。
func (im *Importer) Run(ctx context.Context, data []byte) *model.ImportReport {
	report := model.NewImportReport()

	runID := uuid.New().String()
	logger := slog.With("importID", runID)
	logger.Info("WXRインポート開始", "size", len(data))

	channel, err := wxr.Decode(data)
	if err != nil {
		report.AddFatal("WXRのデコードに失敗しました: 入力が空か、channel要素が見つかりません")
		logger.Error("WXRデコード失敗", "error", err)
		return report
	}

	run := &importRun{
		im:            im,
		report:        report,
		logger:        logger,
		categorySlugs: make(map[string]bool),
		authorSlugs:   make(map[string]bool),
		postSlugs:     make(map[string]bool),
	}

	run.importCategories(ctx, channel)
	authorMap := run.importAuthors(ctx, channel)
	run.importPosts(ctx, channel, authorMap)

	logger.Info("WXRインポート完了",
		"postsImported", report.Posts.Imported,
		"postsSkipped", report.Posts.Skipped,
		"authorsImported", report.Authors.Imported,
		"categoriesImported", report.Categories.Imported,
		"imagesImported", report.Posts.ImagesImported,
		"errors", len(report.Posts.Errors)+len(report.Errors),
	)

	return report
}

// importRun は1回のインポート実行に閉じた状態を保持する。
// スラッグ集合はこの実行内で書き込んだものを記録し、永続ストアの
// 既存チェックと合わせてエンティティ種別ごとの一意性を担保する。
type importRun struct {
	im     *Importer
	report *model.ImportReport
	logger *slog.Logger

	categorySlugs map[string]bool
	authorSlugs   map[string]bool
	postSlugs     map[string]bool
}

// importCategories はchannel直下のカテゴリ宣言を処理する。
// 既存スラッグはスキップし、正規化後に名前もスラッグも得られない宣言は
// 黙って落としてスキップとして数える。
func (r *importRun) importCategories(ctx context.Context, channel *wxr.Channel) {
	for _, decl := range channel.Categories {
		name := decl.Name.Scalar()
		catSlug := decl.NiceName.Scalar()
		if catSlug == "" {
			catSlug = slug.Make(name)
		}
		if name == "" || catSlug == "" {
			r.report.Categories.Skipped++
			continue
		}

		if r.categoryKnown(ctx, catSlug) {
			r.report.Categories.Skipped++
			continue
		}

		now := time.Now().UTC()
		category := &model.Category{
			Slug:      catSlug,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.im.categories.Create(ctx, category); err != nil {
			r.report.Categories.Skipped++
			r.report.AddError(fmt.Sprintf("カテゴリ %q の保存に失敗しました: %v", name, err))
			r.logger.Warn("カテゴリ保存失敗", "slug", catSlug, "error", err)
			continue
		}

		r.categorySlugs[catSlug] = true
		r.report.Categories.Imported++
		r.logger.Info("カテゴリをインポート", "slug", catSlug, "name", name)
	}
}

// importAuthors はchannel直下の著者宣言を処理し、
// ログイン名→スラッグの対応表を返す。対応表はスキップされた著者も含む。
// 表示名がない場合は姓名、それもなければログイン名を表示名とする。
func (r *importRun) importAuthors(ctx context.Context, channel *wxr.Channel) map[string]string {
	authorMap := make(map[string]string)

	for _, decl := range channel.Authors {
		login := decl.Login.Scalar()
		authorSlug := slug.Make(login)
		if login == "" || authorSlug == "" {
			r.report.Authors.Skipped++
			continue
		}

		authorMap[login] = authorSlug

		if r.authorKnown(ctx, authorSlug) {
			r.report.Authors.Skipped++
			continue
		}

		first := decl.FirstName.Scalar()
		last := decl.LastName.Scalar()

		name := decl.DisplayName.Scalar()
		if name == "" {
			name = strings.TrimSpace(first + " " + last)
		}
		if name == "" {
			name = login
		}

		now := time.Now().UTC()
		author := &model.Author{
			Slug:      authorSlug,
			Name:      name,
			Bio:       strings.TrimSpace(first + " " + last),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.im.authors.Create(ctx, author); err != nil {
			r.report.Authors.Skipped++
			r.report.AddError(fmt.Sprintf("著者 %q の保存に失敗しました: %v", login, err))
			r.logger.Warn("著者保存失敗", "slug", authorSlug, "error", err)
			continue
		}

		r.authorSlugs[authorSlug] = true
		r.report.Authors.Imported++
		r.logger.Info("著者をインポート", "slug", authorSlug, "name", name)
	}

	return authorMap
}

// importPosts はpostタイプの記事をすべて処理する。
// 添付ファイルアイテムはサムネイル解決の参照元としてだけ使用する。
// 1記事の失敗はエラーリストに積んで次の記事へ進み、バッチ全体を止めない。
func (r *importRun) importPosts(ctx context.Context, channel *wxr.Channel, authorMap map[string]string) {
	attachments := buildAttachmentIndex(channel.Items)

	for i := range channel.Items {
		item := &channel.Items[i]
		if item.PostType.Scalar() != "post" {
			continue
		}
		status := item.Status.Scalar()
		if status != "publish" && status != "draft" {
			continue
		}

		if err := r.importPost(ctx, item, status, authorMap, attachments); err != nil {
			title := item.Title.Scalar()
			r.report.Posts.Skipped++
			r.report.AddPostError(fmt.Sprintf("記事 %q のインポートに失敗しました: %v", title, err))
			r.logger.Warn("記事インポート失敗", "title", title, "error", err)
		}
	}
}

// importPost は1記事分のパイプラインを実行する。
// スラッグ解決→著者・カテゴリ解決→サムネイル解決→本文画像の移設→
// URL書き換え→Markdown変換→メタディスクリプション導出→永続化、の順。
func (r *importRun) importPost(ctx context.Context, item *wxr.Item, status string, authorMap map[string]string, attachments map[string]string) error {
	title := item.Title.Scalar()

	base := item.PostName.Scalar()
	if base == "" {
		base = slug.Make(title)
	}
	if base == "" {
		base = "post"
	}
	postSlug := slug.Unique(base, func(s string) bool {
		return r.postKnown(ctx, s)
	})

	post := &model.Post{
		Slug:  postSlug,
		Title: title,
	}

	// 著者解決。宣言に対応がないログイン名はログイン名由来のスラッグに
	// フォールバックし、未登録なら最小限の著者レコードを初出時に自動作成する
	// （WXR 1.0系にはwp:author宣言が存在しないため）。
	// 自動作成に失敗した記事は著者未設定のままインポートされる。
	if login := item.Creator(); login != "" {
		if mapped, ok := authorMap[login]; ok {
			post.AuthorSlug = mapped
		} else if authorSlug := slug.Make(login); authorSlug != "" {
			if !r.authorKnown(ctx, authorSlug) {
				now := time.Now().UTC()
				author := &model.Author{
					Slug:      authorSlug,
					Name:      login,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := r.im.authors.Create(ctx, author); err != nil {
					r.report.AddError(fmt.Sprintf("著者 %q の自動作成に失敗しました: %v", authorSlug, err))
					r.logger.Warn("著者自動作成失敗", "slug", authorSlug, "error", err)
					authorSlug = ""
				} else {
					r.authorSlugs[authorSlug] = true
					r.report.Authors.Imported++
					r.logger.Info("著者を自動作成", "slug", authorSlug)
				}
			}
			if authorSlug != "" {
				authorMap[login] = authorSlug
				post.AuthorSlug = authorSlug
			}
		}
	}

	// カテゴリ解決。未宣言のカテゴリは初出時に自動作成する
	// （WXRのカテゴリカタログが不完全なエクスポートへの補修）。
	// カテゴリ参照がない記事や自動作成に失敗した記事は
	// カテゴリ未設定のまま正常にインポートされる。
	if ref := item.FirstCategory(); ref != nil {
		catSlug := ref.NiceName
		if catSlug == "" {
			catSlug = slug.Make(ref.Name())
		}
		if catSlug != "" {
			if !r.categoryKnown(ctx, catSlug) {
				name := ref.Name()
				if name == "" {
					name = catSlug
				}
				now := time.Now().UTC()
				category := &model.Category{
					Slug:      catSlug,
					Name:      name,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := r.im.categories.Create(ctx, category); err != nil {
					r.report.AddError(fmt.Sprintf("カテゴリ %q の自動作成に失敗しました: %v", catSlug, err))
					r.logger.Warn("カテゴリ自動作成失敗", "slug", catSlug, "error", err)
					catSlug = ""
				} else {
					r.categorySlugs[catSlug] = true
					r.report.Categories.Imported++
					r.logger.Info("カテゴリを自動作成", "slug", catSlug)
				}
			}
			if catSlug != "" {
				post.CategorySlug = catSlug
			}
		}
	}

	// サムネイル解決。_thumbnail_idが指す添付ファイルのURLを移設する。
	// 移設に失敗した場合は元のリモートURLをそのまま保持する。
	if thumbID := item.MetaValue("_thumbnail_id"); thumbID != "" {
		if thumbURL, ok := attachments[thumbID]; ok && thumbURL != "" {
			local, _ := r.im.relocator.Relocate(ctx, thumbURL, postSlug)
			if local != "" {
				post.Thumbnail = local
				r.report.Posts.ImagesImported++
			} else {
				post.Thumbnail = thumbURL
			}
		}
	}

	// 本文画像の移設。各画像は独立したベストエフォートで、
	// 失敗した画像の元URLは書き換えられずに残る。
	body := item.ContentHTML()
	relocations := make(map[string]string)
	for _, imgURL := range media.ExtractImageURLs(body) {
		local, _ := r.im.relocator.Relocate(ctx, imgURL, postSlug)
		if local != "" {
			relocations[imgURL] = local
			r.report.Posts.ImagesImported++
		}
	}

	rewritten := markdown.RewriteURLs(body, relocations)
	post.Content = r.im.converter.ToMarkdown(rewritten)

	// メタディスクリプション。抜粋を優先し、空なら本文から導出する。
	desc := r.im.stripper.Strip(item.ExcerptHTML())
	if desc == "" {
		desc = r.im.stripper.Strip(body)
	}
	post.MetaDescription = truncateRunes(desc, metaDescriptionLimit)

	// 公開日時はステータスがpublishで、かつ日時が解釈できる場合のみ設定する。
	// それ以外は下書き（公開日なし）として取り込む。
	if status == "publish" {
		if t, ok := parseWPTime(item.PostDateGMT.Scalar()); ok {
			post.PublishedAt = &t
		}
	}

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := r.im.posts.Create(ctx, post); err != nil {
		return err
	}

	r.postSlugs[postSlug] = true
	r.report.Posts.Imported++
	r.logger.Info("記事をインポート", "slug", postSlug, "title", title, "status", status)
	return nil
}

// categoryKnown はカテゴリスラッグが既知（この実行内または永続ストア）かを返す。
func (r *importRun) categoryKnown(ctx context.Context, s string) bool {
	if r.categorySlugs[s] {
		return true
	}
	exists, err := r.im.categories.Exists(ctx, s)
	if err != nil {
		r.logger.Warn("カテゴリ存在確認失敗", "slug", s, "error", err)
		return false
	}
	return exists
}

// authorKnown は著者スラッグが既知かを返す。
func (r *importRun) authorKnown(ctx context.Context, s string) bool {
	if r.authorSlugs[s] {
		return true
	}
	exists, err := r.im.authors.Exists(ctx, s)
	if err != nil {
		r.logger.Warn("著者存在確認失敗", "slug", s, "error", err)
		return false
	}
	return exists
}

// postKnown は記事スラッグが既知かを返す。
func (r *importRun) postKnown(ctx context.Context, s string) bool {
	if r.postSlugs[s] {
		return true
	}
	exists, err := r.im.posts.Exists(ctx, s)
	if err != nil {
		r.logger.Warn("記事存在確認失敗", "slug", s, "error", err)
		return false
	}
	return exists
}

// buildAttachmentIndex はattachmentタイプのアイテムから
// wp:post_id→メディアURLの索引を構築する。
// wp:attachment_urlを優先し、ない場合はGUIDへフォールバックする。
func buildAttachmentIndex(items []wxr.Item) map[string]string {
	index := make(map[string]string)
	for i := range items {
		item := &items[i]
		if item.PostType.Scalar() != "attachment" {
			continue
		}
		id := item.PostID.Scalar()
		if id == "" {
			continue
		}
		url := item.AttachmentURL.Scalar()
		if url == "" {
			url = item.GUID.Scalar()
		}
		if url != "" {
			index[id] = url
		}
	}
	return index
}

// parseWPTime はWordPressの日時文字列をUTCとして解釈する。
// センチネル値（0000-00-00 00:00:00）と解釈不能な値はfalseを返す。
func parseWPTime(s string) (time.Time, bool) {
	if s == "" || s == wpZeroTime {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(wpTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// truncateRunes は文字列をルーン数でlimitまで切り詰める。
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// compile-time interface check
var _ Service = (*Importer)(nil)
