package workflow

import (
	"context"
	"fmt"

	"github.com/shouni/go-photo-session-kit/pkg/asset"
	"github.com/shouni/go-photo-session-kit/pkg/config"
	"github.com/shouni/go-photo-session-kit/pkg/generator"
	"github.com/shouni/go-photo-session-kit/pkg/prompts"
	"github.com/shouni/go-photo-session-kit/pkg/publisher"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	cfg           config.Config
	httpClient    asset.Fetcher
	reader        publisher.InputReader
	writer        publisher.OutputWriter
	contentClient generator.ContentGenerator
	aiClient      generator.PartsGenerator
	conceptPrompt prompts.ConceptPrompt
	imagePrompt   prompts.ImagePrompt
}

// New は、設定と入出力の依存関係を基に新しい Manager を初期化します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	cfg := applyDefaults(args.Config)

	contentClient, err := initializeContentClient(ctx, args.ContentClient, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	aiClient, err := initializeAIClient(ctx, args.AIClient, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	cPrompt, err := initializeConceptPrompt(args.ConceptPrompt)
	if err != nil {
		return nil, err
	}

	return &Manager{
		cfg:           cfg,
		httpClient:    args.HTTPClient,
		reader:        args.Reader,
		writer:        args.Writer,
		contentClient: contentClient,
		aiClient:      aiClient,
		conceptPrompt: cPrompt,
		imagePrompt:   initializeImagePrompt(args.ImagePrompt),
	}, nil
}

// Config は既定値を補完した後の設定を返します。
func (m *Manager) Config() config.Config {
	return m.cfg
}

// applyDefaults は未設定の項目を既定値で埋めます。
func applyDefaults(cfg config.Config) config.Config {
	def := config.DefaultConfig()
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = def.GeminiModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = def.ImageModel
	}
	if cfg.EditRateBurst <= 0 {
		cfg.EditRateBurst = def.EditRateBurst
	}
	if cfg.CompressionQuality <= 0 || cfg.CompressionQuality > 100 {
		cfg.CompressionQuality = def.CompressionQuality
	}
	return cfg
}

// initializeContentClient は構成案の生成に使う genai クライアントを初期化します。
// 引数として既存のクライアントが渡された場合はそれを返します。
func initializeContentClient(ctx context.Context, client generator.ContentGenerator, apiKey string) (generator.ContentGenerator, error) {
	if client != nil {
		return client, nil
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GeminiAPIKey は必須です")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}
	return genaiClient.Models, nil
}

// initializeAIClient は画像生成に使う gemini クライアントを初期化します。
// 引数として既存のクライアントが渡された場合はそれを返します。
func initializeAIClient(ctx context.Context, client generator.PartsGenerator, apiKey string) (generator.PartsGenerator, error) {
	if client != nil {
		return client, nil
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GeminiAPIKey は必須です")
	}

	clientConfig := gemini.Config{
		APIKey: apiKey,
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// initializeConceptPrompt は ConceptPrompt ビルダーを初期化します。
// 引数として既存のビルダーが渡された場合はそれを返し、nil の場合は新規作成します。
func initializeConceptPrompt(conceptPrompt prompts.ConceptPrompt) (prompts.ConceptPrompt, error) {
	if conceptPrompt != nil {
		return conceptPrompt, nil
	}

	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
	}
	return pb, nil
}

// initializeImagePrompt は ImagePrompt ビルダーを初期化します。
func initializeImagePrompt(imagePrompt prompts.ImagePrompt) prompts.ImagePrompt {
	if imagePrompt != nil {
		return imagePrompt
	}
	return prompts.NewImageInstructionBuilder()
}
