package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup は指定writerへJSON構造化ログを出力するslog.Loggerを生成して返す。
// インポート処理のような長時間バッチでもログを機械的に集計できるよう、
// 全コンポーネントでこのロガーを共有する。
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// nilを渡した場合はos.Stdoutに出力する。コンテナ運用を前提に
// ログはすべて標準出力へ流す。
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
