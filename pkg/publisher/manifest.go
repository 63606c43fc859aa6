package publisher

import (
	"path"
	"path/filepath"
	"time"

	"github.com/shouni/go-photo-session-kit/pkg/asset"
	"github.com/shouni/go-photo-session-kit/pkg/domain"
)

// ManifestVersion は session.json の形式のバージョンです。
const ManifestVersion = 1

// Manifest は保存されたセッションの内容を記録する session.json の構造です。
type Manifest struct {
	Version   int                   `json:"version"`
	SessionID string                `json:"session_id"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Request   ManifestRequest       `json:"request"`
	Concepts  []domain.PhotoConcept `json:"concepts"`
	Images    []ManifestImage       `json:"images"`
}

// ManifestRequest は生成時の入力値です。参照写真そのものは保存しません。
type ManifestRequest struct {
	Age               int    `json:"age"`
	Style             string `json:"style"`
	NumImages         int    `json:"num_images"`
	ExtraNotes        string `json:"extra_notes,omitempty"`
	ReferenceMimeType string `json:"reference_mime_type,omitempty"`
}

// ManifestImage は1スロット分の画像の記録です。Number は 1 始まりです。
type ManifestImage struct {
	Number   int      `json:"number"`
	Path     string   `json:"path"`
	MimeType string   `json:"mime_type"`
	DataURL  string   `json:"data_url,omitempty"`
	Edits    []string `json:"edits,omitempty"`

	image domain.Image
}

func newManifestRequest(req domain.SessionRequest) ManifestRequest {
	return ManifestRequest{
		Age:               req.Age,
		Style:             req.Style.String(),
		NumImages:         req.NumImages,
		ExtraNotes:        req.ExtraNotes,
		ReferenceMimeType: req.ReferenceImage.MimeType,
	}
}

// relativeImagePath はマニフェストに記録する images/ からの相対パスを返します。
func relativeImagePath(fullPath string) string {
	return path.Join(asset.DefaultImageDir, filepath.Base(fullPath))
}
