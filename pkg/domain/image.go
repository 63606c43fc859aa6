package domain

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	imagedom "github.com/shouni/gemini-image-kit/ports"
)

const dataURLBase64Marker = ";base64"

// Image はエンコード済み画像のバイナリとメディアタイプの組です。
// 参照写真と生成画像の両方をこの型で扱い、data URL への変換は境界でのみ行います。
type Image struct {
	Data     []byte
	MimeType string
}

// NewImageFromResponse は画像生成キットの応答を Image に変換します。
func NewImageFromResponse(resp *imagedom.ImageResponse) Image {
	if resp == nil {
		return Image{}
	}
	return Image{Data: resp.Data, MimeType: resp.MimeType}
}

// IsZero はデータもメディアタイプも持たない場合に true を返します。
func (img Image) IsZero() bool {
	return len(img.Data) == 0 && img.MimeType == ""
}

// Validate はメディアタイプとペイロードの両方が揃っているかを確認します。
func (img Image) Validate() error {
	if strings.TrimSpace(img.MimeType) == "" {
		return fmt.Errorf("%w: missing media type", ErrInvalidDataURL)
	}
	if len(img.Data) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	return nil
}

// Base64 はペイロードを標準 base64 で返します。
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL は data:<mime>;base64,<payload> 形式の文字列を返します。
func (img Image) DataURL() string {
	return "data:" + img.MimeType + dataURLBase64Marker + "," + img.Base64()
}

// Equal はバイト列とメディアタイプが一致するかを返します。
func (img Image) Equal(other Image) bool {
	return img.MimeType == other.MimeType && bytes.Equal(img.Data, other.Data)
}

// Clone はバイト列を複製した Image を返します。
func (img Image) Clone() Image {
	return Image{Data: bytes.Clone(img.Data), MimeType: img.MimeType}
}

// ParseDataURL は data URL をメディアタイプとペイロードに分解します。
// 区切りのカンマ、data: 接頭辞、MIME タイプ、base64 ペイロードのいずれかが欠けていれば ErrInvalidDataURL を返します。
func ParseDataURL(s string) (Image, error) {
	meta, payload, found := strings.Cut(strings.TrimSpace(s), ",")
	if !found || meta == "" || payload == "" {
		return Image{}, fmt.Errorf("%w: missing media-type prefix or payload", ErrInvalidDataURL)
	}

	mediaType, ok := strings.CutPrefix(meta, "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURL)
	}
	mediaType, ok = strings.CutSuffix(mediaType, dataURLBase64Marker)
	if !ok {
		return Image{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}
	// "image/png;charset=..." のようなパラメータは落とすのだ
	mediaType, _, _ = strings.Cut(mediaType, ";")
	if mediaType == "" {
		return Image{}, fmt.Errorf("%w: missing media type", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}

	return Image{Data: data, MimeType: mediaType}, nil
}
