package generator

import (
	"context"
	"fmt"

	"github.com/shouni/go-photo-session-kit/pkg/domain"

	imagedom "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// GeminiImageGenerator は参照画像と指示文を1リクエストにまとめて画像を生成します。
type GeminiImageGenerator struct {
	aiClient PartsGenerator
	model    string
}

// NewGeminiImageGenerator は依存関係を注入して GeminiImageGenerator を初期化します。
func NewGeminiImageGenerator(aiClient PartsGenerator, model string) (*GeminiImageGenerator, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &GeminiImageGenerator{aiClient: aiClient, model: model}, nil
}

// GenerateImage は [画像, テキスト] の順でパーツを送り、最初のインライン画像を返します。
func (g *GeminiImageGenerator) GenerateImage(ctx context.Context, reference domain.Image, instruction string) (*imagedom.ImageResponse, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(reference.Data, reference.MimeType),
		genai.NewPartFromText(instruction),
	}

	resp, err := g.aiClient.GenerateWithParts(ctx, g.model, parts, gemini.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("画像生成リクエストに失敗しました: %w", err)
	}
	if resp == nil {
		return nil, &domain.ImageGenerationError{Reason: domain.ReasonNoImageData}
	}

	return parseToResponse(resp.RawResponse)
}

// parseToResponse は最初の候補のパーツから画像データを持つ最初のものを取り出します。
func parseToResponse(resp *genai.GenerateContentResponse) (*imagedom.ImageResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, &domain.ImageGenerationError{Reason: domain.ReasonNoImageData}
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &imagedom.ImageResponse{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	finishReason := ""
	if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
		finishReason = string(candidate.FinishReason)
	}
	return nil, &domain.ImageGenerationError{Reason: domain.ReasonNoImageData, FinishReason: finishReason}
}
