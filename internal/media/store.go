// Package media は画像の保存と外部画像の移設（リロケーション）を提供する。
package media

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// BlobStore は画像バイト列の永続化インターフェースを定義する。
// 保存に成功した場合、公開URLパスを返す。
type BlobStore interface {
	// SaveImage はデータを指定の相対名で保存し、公開パスを返す。
	// 相対名はスラッシュ区切りのサブディレクトリを含んでよい。
	SaveImage(data []byte, name string) (string, error)
}

// DiskStore はローカルディスクを使用したBlobStoreの実装。
// rootDir以下にファイルを置き、publicPrefix以下のURLとして公開する。
type DiskStore struct {
	rootDir      string
	publicPrefix string
}

// NewDiskStore はDiskStoreの新しいインスタンスを生成する。
// publicPrefixは"/media"のような先頭スラッシュ付きのURLプレフィックスを指定する。
func NewDiskStore(rootDir, publicPrefix string) *DiskStore {
	return &DiskStore{
		rootDir:      rootDir,
		publicPrefix: publicPrefix,
	}
}

// SaveImage はデータをrootDir以下に保存し、公開パスを返す。
// パストラバーサルを防ぐため、rootDirの外に出る相対名は拒否する。
func (s *DiskStore) SaveImage(data []byte, name string) (string, error) {
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "", fmt.Errorf("不正なファイル名です: %s", name)
		}
	}
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" {
		return "", fmt.Errorf("不正なファイル名です: %s", name)
	}

	full := filepath.Join(s.rootDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("メディアディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("メディアファイルの書き込みに失敗しました: %w", err)
	}

	return path.Join(s.publicPrefix, clean), nil
}

// compile-time interface check
var _ BlobStore = (*DiskStore)(nil)
