package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/go-photo-session-kit/pkg/domain"

	"github.com/shouni/gemini-image-kit/imgutil"
	_ "golang.org/x/image/webp"
)

// Fetcher は http(s) URL からバイト列を取得します。httpkit のクライアントが満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Opener はローカルパスや gs:// URI を開きます。remoteio.InputReader が満たします。
type Opener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// ReferenceLoader は参照写真や保存済み画像を読み込み、メディアタイプを判定して domain.Image にします。
type ReferenceLoader struct {
	fetcher  Fetcher
	opener   Opener
	compress bool
	quality  int
}

// NewReferenceLoader は ReferenceLoader を初期化します。
// compress が true の場合、読み込んだ画像を quality の JPEG に圧縮します。
func NewReferenceLoader(fetcher Fetcher, opener Opener, compress bool, quality int) *ReferenceLoader {
	return &ReferenceLoader{
		fetcher:  fetcher,
		opener:   opener,
		compress: compress,
		quality:  quality,
	}
}

// Load は data URL、http(s) URL、ローカルパス、gs:// URI のいずれかから画像を読み込みます。
func (l *ReferenceLoader) Load(ctx context.Context, source string) (domain.Image, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return domain.Image{}, &domain.ValidationError{Field: "referenceImage", Message: domain.MissingReferenceMessage}
	}

	var (
		data     []byte
		declared string
		err      error
	)
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, "data:"):
		var img domain.Image
		img, err = domain.ParseDataURL(source)
		data, declared = img.Data, img.MimeType
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		data, err = l.fetch(ctx, source)
	default:
		data, err = l.open(ctx, source)
	}
	if err != nil {
		return domain.Image{}, fmt.Errorf("画像の読み込みに失敗しました (source: %s): %w", truncateSource(source), err)
	}

	img, err := toImage(data, declared)
	if err != nil {
		return domain.Image{}, fmt.Errorf("画像の読み込みに失敗しました (source: %s): %w", truncateSource(source), err)
	}

	if l.compress {
		img = l.compressImage(ctx, img)
	}
	slog.InfoContext(ctx, "画像を読み込みました", "source", truncateSource(source), "mime_type", img.MimeType, "bytes", len(img.Data))
	return img, nil
}

func (l *ReferenceLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.fetcher == nil {
		return nil, fmt.Errorf("HTTP クライアントが設定されていません")
	}
	return l.fetcher.FetchBytes(ctx, url)
}

func (l *ReferenceLoader) open(ctx context.Context, path string) ([]byte, error) {
	if l.opener == nil {
		return nil, fmt.Errorf("入力リーダーが設定されていません")
	}
	rc, err := l.opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// compressImage は JPEG への圧縮を試み、失敗した場合や大きくなる場合は元の画像を返します。
func (l *ReferenceLoader) compressImage(ctx context.Context, img domain.Image) domain.Image {
	compressed, err := imgutil.CompressToJPEG(bytes.NewReader(img.Data), l.quality)
	if err != nil {
		slog.WarnContext(ctx, "画像の圧縮に失敗したため元の画像を使います", "mime_type", img.MimeType, "error", err)
		return img
	}
	if len(compressed) >= len(img.Data) && img.MimeType == "image/jpeg" {
		return img
	}
	return domain.Image{Data: compressed, MimeType: "image/jpeg"}
}

// toImage は内容からメディアタイプを判定します。判定できない場合のみ宣言されたタイプを使います。
func toImage(data []byte, declared string) (domain.Image, error) {
	if len(data) == 0 {
		return domain.Image{}, fmt.Errorf("画像データが空です")
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		if !strings.HasPrefix(declared, "image/") {
			return domain.Image{}, fmt.Errorf("画像ではないデータです (detected: %s)", mimeType)
		}
		mimeType = declared
	}
	return domain.Image{Data: data, MimeType: mimeType}, nil
}

// truncateSource はログ出力用に data URL などの長いソースを短くします。
func truncateSource(source string) string {
	const maxLen = 64
	if len(source) <= maxLen {
		return source
	}
	return source[:maxLen] + "..."
}
