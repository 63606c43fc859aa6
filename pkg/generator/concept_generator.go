package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-photo-session-kit/pkg/domain"

	"google.golang.org/genai"
)

const jsonMIMEType = "application/json"

// GeminiConceptGenerator は構造化出力を使って構成案の配列を生成します。
type GeminiConceptGenerator struct {
	client      ContentGenerator
	model       string
	temperature *float32
}

// NewGeminiConceptGenerator は依存関係を注入して GeminiConceptGenerator を初期化します。
// temperature が nil の場合はモデル側の既定値を使います。
func NewGeminiConceptGenerator(client ContentGenerator, model string, temperature *float32) (*GeminiConceptGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &GeminiConceptGenerator{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// GenerateConcepts は1回の API 呼び出しで構成案を取得します。リトライはしません。
func (g *GeminiConceptGenerator) GenerateConcepts(ctx context.Context, prompt, systemInstruction string, reference *domain.Image) ([]domain.PhotoConcept, error) {
	parts := make([]*genai.Part, 0, 2)
	if reference != nil && !reference.IsZero() {
		parts = append(parts, genai.NewPartFromBytes(reference.Data, reference.MimeType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   ConceptListSchema(),
		Temperature:      g.temperature,
	}
	if systemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	slog.InfoContext(ctx, "構成案の生成を依頼します", "model", g.model, "with_reference", len(parts) > 1)
	resp, err := g.client.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("構成案の生成リクエストに失敗しました: %w", err)
	}
	if resp == nil {
		return nil, &domain.ConceptGenerationError{
			Reason: domain.ReasonInvalidFormat,
			Err:    fmt.Errorf("応答がありませんでした"),
		}
	}

	concepts, err := parseConcepts(resp.Text())
	if err != nil {
		slog.WarnContext(ctx, "構成案の応答を解釈できませんでした", "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "構成案を受け取りました", "count", len(concepts))
	return concepts, nil
}
