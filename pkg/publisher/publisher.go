package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shouni/go-photo-session-kit/pkg/asset"
	"github.com/shouni/go-photo-session-kit/pkg/domain"
)

const manifestContentType = "application/json; charset=utf-8"

// OutputWriter は生成物を外部ストレージに保存します。remoteio.OutputWriter が満たします。
type OutputWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// InputReader は保存済みのマニフェストや画像を読み込みます。remoteio.InputReader が満たします。
type InputReader interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Snapshot はパブリッシュ対象となるセッションの内容です。
type Snapshot struct {
	SessionID string
	Request   domain.SessionRequest
	Concepts  []domain.PhotoConcept
	Results   domain.ResultSet
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	ManifestPath string   // 生成された session.json のパス
	ImagePaths   []string // 保存された全画像のパスリスト
}

// SessionPublisher は生成画像とセッションマニフェストの永続化を担います。
type SessionPublisher struct {
	writer       OutputWriter
	reader       InputReader
	embedDataURL bool
	now          func() time.Time
}

// NewSessionPublisher は SessionPublisher を初期化します。
// embedDataURL が true の場合、マニフェストに各画像の data URL も埋め込みます。
func NewSessionPublisher(writer OutputWriter, reader InputReader, embedDataURL bool) (*SessionPublisher, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer は必須です")
	}
	return &SessionPublisher{
		writer:       writer,
		reader:       reader,
		embedDataURL: embedDataURL,
		now:          time.Now,
	}, nil
}

// Publish は画像を images/portrait_<n>.<ext> として保存し、outputDir に session.json を書き出します。
// 一部の画像しか生成されていない場合も、その時点の結果をそのまま保存します。
func (p *SessionPublisher) Publish(ctx context.Context, outputDir string, snap Snapshot) (PublishResult, error) {
	result := PublishResult{}

	manifestPath, err := asset.ResolveOutputPath(outputDir, asset.DefaultManifestName)
	if err != nil {
		return result, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	now := p.now().UTC()
	manifest := &Manifest{
		Version:   ManifestVersion,
		SessionID: snap.SessionID,
		CreatedAt: now,
		UpdatedAt: now,
		Request:   newManifestRequest(snap.Request),
		Concepts:  snap.Concepts,
		Images:    make([]ManifestImage, 0, len(snap.Results)),
	}

	for i, img := range snap.Results {
		entry, fullPath, err := p.saveImage(ctx, outputDir, i+1, 0, img)
		if err != nil {
			return result, err
		}
		manifest.Images = append(manifest.Images, entry)
		result.ImagePaths = append(result.ImagePaths, fullPath)
	}

	if err := p.writeManifest(ctx, manifestPath, manifest); err != nil {
		return result, err
	}
	result.ManifestPath = manifestPath

	slog.InfoContext(ctx, "セッションを保存しました", "session_id", snap.SessionID, "manifest", manifestPath, "images", len(result.ImagePaths))
	return result, nil
}

// ApplyEdits は成功した編集結果を新しいファイルとして保存し、マニフェストの該当エントリを更新して書き戻します。
// 失敗した編集のエントリは変更しません。
func (p *SessionPublisher) ApplyEdits(ctx context.Context, manifestPath string, manifest *Manifest, requests []domain.EditRequest, results []domain.EditResult) (PublishResult, error) {
	result := PublishResult{ManifestPath: manifestPath}
	if manifest == nil {
		return result, fmt.Errorf("manifest は必須です")
	}

	instructions := make(map[int]string, len(requests))
	for _, req := range requests {
		instructions[req.Index] = req.Instruction
	}

	outputDir := asset.ResolveBaseURL(manifestPath)
	for _, res := range results {
		if res.Err != nil || res.Index < 0 || res.Index >= len(manifest.Images) {
			continue
		}
		current := manifest.Images[res.Index]
		if res.Image.Equal(current.image) {
			continue
		}

		version := len(current.Edits) + 1
		entry, fullPath, err := p.saveImage(ctx, outputDir, res.Index+1, version, res.Image)
		if err != nil {
			return result, err
		}
		entry.Edits = append(append([]string(nil), current.Edits...), instructions[res.Index])
		manifest.Images[res.Index] = entry
		result.ImagePaths = append(result.ImagePaths, fullPath)
	}

	manifest.UpdatedAt = p.now().UTC()
	if err := p.writeManifest(ctx, manifestPath, manifest); err != nil {
		return result, err
	}
	return result, nil
}

// LoadManifest は session.json を読み込み、各スロットの画像を復元します。
// 読み込めなかった画像は空のまま返し、編集時に invalid image source として扱われます。
func (p *SessionPublisher) LoadManifest(ctx context.Context, manifestPath string) (*Manifest, domain.ResultSet, error) {
	if p.reader == nil {
		return nil, nil, fmt.Errorf("reader が設定されていません")
	}

	data, err := p.readAll(ctx, manifestPath)
	if err != nil {
		return nil, nil, fmt.Errorf("マニフェストの読み込みに失敗しました (path: %s): %w", manifestPath, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, nil, fmt.Errorf("マニフェストの解析に失敗しました (path: %s): %w", manifestPath, err)
	}

	baseDir := asset.ResolveBaseURL(manifestPath)
	results := make(domain.ResultSet, len(manifest.Images))
	for i := range manifest.Images {
		img, err := p.loadImage(ctx, baseDir, manifest.Images[i])
		if err != nil {
			slog.WarnContext(ctx, "保存済み画像を復元できませんでした", "number", i+1, "path", manifest.Images[i].Path, "error", err)
			continue
		}
		manifest.Images[i].image = img
		results[i] = img
	}
	return &manifest, results, nil
}

func (p *SessionPublisher) loadImage(ctx context.Context, baseDir string, entry ManifestImage) (domain.Image, error) {
	if entry.DataURL != "" {
		return domain.ParseDataURL(entry.DataURL)
	}

	fullPath, err := asset.ResolveOutputPath(baseDir, entry.Path)
	if err != nil {
		return domain.Image{}, err
	}
	data, err := p.readAll(ctx, fullPath)
	if err != nil {
		return domain.Image{}, err
	}
	img := domain.Image{Data: data, MimeType: entry.MimeType}
	if err := img.Validate(); err != nil {
		return domain.Image{}, err
	}
	return img, nil
}

// saveImage は画像を保存し、マニフェスト用のエントリと保存先のフルパスを返します。
// version が 1 以上の場合は portrait_<n>_<version>.<ext> として別ファイルに保存します。
func (p *SessionPublisher) saveImage(ctx context.Context, outputDir string, number, version int, img domain.Image) (ManifestImage, string, error) {
	if err := img.Validate(); err != nil {
		return ManifestImage{}, "", fmt.Errorf("画像 %d は保存できません: %w", number, err)
	}

	fullPath, err := asset.PortraitPath(outputDir, number, img.MimeType)
	if err != nil {
		return ManifestImage{}, "", err
	}
	if version > 0 {
		if fullPath, err = asset.GenerateIndexedPath(fullPath, version); err != nil {
			return ManifestImage{}, "", fmt.Errorf("画像 %d の出力パス生成に失敗しました: %w", number, err)
		}
	}

	slog.InfoContext(ctx, "画像を保存しています", "number", number, "path", fullPath)
	if err := p.writer.Write(ctx, fullPath, bytes.NewReader(img.Data), img.MimeType); err != nil {
		return ManifestImage{}, "", fmt.Errorf("画像 %d の保存に失敗しました (path: %s): %w", number, fullPath, err)
	}

	entry := ManifestImage{
		Number:   number,
		Path:     relativeImagePath(fullPath),
		MimeType: img.MimeType,
		image:    img,
	}
	if p.embedDataURL {
		entry.DataURL = img.DataURL()
	}
	return entry, fullPath, nil
}

func (p *SessionPublisher) writeManifest(ctx context.Context, manifestPath string, manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("マニフェストの変換に失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, manifestPath, bytes.NewReader(data), manifestContentType); err != nil {
		return fmt.Errorf("マニフェストの書き込みに失敗しました (path: %s): %w", manifestPath, err)
	}
	return nil
}

func (p *SessionPublisher) readAll(ctx context.Context, path string) ([]byte, error) {
	rc, err := p.reader.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
