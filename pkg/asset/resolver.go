package asset

import (
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir は生成された画像を格納するデフォルトのディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultManifestName はセッションマニフェストのデフォルト JSON ファイル名です。
	DefaultManifestName = "session.json"
	// DefaultPortraitBaseName はポートレート画像の共通のベースファイル名 (拡張子なし) です。
	DefaultPortraitBaseName = "portrait"
)

var preferredExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// ResolveBaseURL は、入力パス（URLまたはローカルパス）から
// 親ディレクトリのパスを解決し、末尾がセパレータで終わるように正規化します。
func ResolveBaseURL(rawPath string) string {
	return urlpath.ResolveBaseDir(rawPath)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入し、
// 新しいパス文字列を生成します。index は1以上の整数である必要があります。
// 例: "path/to/portrait.png", 1 -> "path/to/portrait_1.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

// PreferredExtension はメディアタイプに対応するファイル拡張子を返します。不明な場合は ".png" です。
func PreferredExtension(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(mimeType))
	}
	if ext, ok := preferredExtensions[mediaType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".png"
}

// PortraitPath は outputDir 配下の images/portrait_<number>.<ext> のパスを返します。number は1始まりです。
func PortraitPath(outputDir string, number int, mimeType string) (string, error) {
	basePath, err := ResolveOutputPath(outputDir, path.Join(DefaultImageDir, DefaultPortraitBaseName+PreferredExtension(mimeType)))
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}
	return GenerateIndexedPath(basePath, number)
}
