package generator

import (
	"context"

	"github.com/shouni/go-photo-session-kit/pkg/domain"

	imagedom "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// ContentGenerator は Gemini の GenerateContent 呼び出しを抽象化します。
// レスポンススキーマを指定する構成案の生成で使い、*genai.Models がそのまま満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// PartsGenerator はマルチパートの画像生成呼び出しを抽象化します。
// gemini.GenerativeModel がそのまま満たします。
type PartsGenerator interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ConceptGenerator は構成案の一覧を生成する責務を持ちます。
type ConceptGenerator interface {
	// GenerateConcepts はプロンプトとシステムインストラクション、任意の参照写真から構成案を生成します。
	GenerateConcepts(ctx context.Context, prompt, systemInstruction string, reference *domain.Image) ([]domain.PhotoConcept, error)
}

// ImageGenerator は参照画像と指示文から画像を1枚生成する責務を持ちます。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, reference domain.Image, instruction string) (*imagedom.ImageResponse, error)
}
