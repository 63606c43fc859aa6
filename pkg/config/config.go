package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultGeminiModel        = "gemini-2.5-flash"
	DefaultImageModel         = "gemini-2.5-flash-image"
	DefaultPacingDelay        = 1 * time.Second
	DefaultEditRateInterval   = 2 * time.Second
	DefaultEditRateBurst      = 2
	DefaultCompressionQuality = 90
)

// Config は Photo Session Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiModel string // 構成案 (JSON) 生成用
	ImageModel  string // 画像生成・編集用

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Generation Settings ---
	ConceptTemperature        float32 // 0 の場合はモデルの既定値を使います
	AttachReferenceToConcepts bool
	PacingDelay               time.Duration // 画像生成リクエストの間に挟む待機時間

	// --- Edit Settings ---
	EditRateInterval time.Duration
	EditRateBurst    int

	// --- Reference Image Settings ---
	CompressReference  bool
	CompressionQuality int
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:               DefaultGeminiModel,
		ImageModel:                DefaultImageModel,
		AttachReferenceToConcepts: true,
		PacingDelay:               DefaultPacingDelay,
		EditRateInterval:          DefaultEditRateInterval,
		EditRateBurst:             DefaultEditRateBurst,
		CompressionQuality:        DefaultCompressionQuality,
	}
}
