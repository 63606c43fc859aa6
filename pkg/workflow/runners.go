package workflow

import (
	"fmt"

	"github.com/shouni/go-photo-session-kit/pkg/asset"
	"github.com/shouni/go-photo-session-kit/pkg/generator"
	"github.com/shouni/go-photo-session-kit/pkg/publisher"
	"github.com/shouni/go-photo-session-kit/pkg/runner"

	"google.golang.org/genai"
)

// BuildSessionRunner は、構成案と画像の生成を担当する Runner を作成します。
func (m *Manager) BuildSessionRunner() (SessionRunner, error) {
	var temperature *float32
	if m.cfg.ConceptTemperature > 0 {
		temperature = genai.Ptr(m.cfg.ConceptTemperature)
	}

	conceptGen, err := generator.NewGeminiConceptGenerator(m.contentClient, m.cfg.GeminiModel, temperature)
	if err != nil {
		return nil, fmt.Errorf("構成案ジェネレーターの初期化に失敗しました: %w", err)
	}

	imageGen, err := m.buildImageGenerator()
	if err != nil {
		return nil, err
	}

	return runner.NewSessionRunner(
		m.conceptPrompt,
		m.imagePrompt,
		conceptGen,
		imageGen,
		runner.NewDelayPacer(m.cfg.PacingDelay),
		m.cfg.AttachReferenceToConcepts,
	)
}

// BuildEditRunner は、画像の編集を担当する Runner を作成します。
func (m *Manager) BuildEditRunner() (EditRunner, error) {
	imageGen, err := m.buildImageGenerator()
	if err != nil {
		return nil, err
	}
	return runner.NewEditRunner(imageGen, m.cfg.EditRateInterval, m.cfg.EditRateBurst)
}

// BuildPublisher は、成果物とマニフェストの保存を担当する Publisher を作成します。
func (m *Manager) BuildPublisher(embedDataURL bool) (Publisher, error) {
	return publisher.NewSessionPublisher(m.writer, m.reader, embedDataURL)
}

// BuildReferenceLoader は、参照写真を読み込む Loader を作成します。
func (m *Manager) BuildReferenceLoader() ReferenceLoader {
	return asset.NewReferenceLoader(m.httpClient, m.reader, m.cfg.CompressReference, m.cfg.CompressionQuality)
}

func (m *Manager) buildImageGenerator() (generator.ImageGenerator, error) {
	imageGen, err := generator.NewGeminiImageGenerator(m.aiClient, m.cfg.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("画像ジェネレーターの初期化に失敗しました: %w", err)
	}
	return imageGen, nil
}
