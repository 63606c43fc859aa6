package config

import (
	"log/slog"
	"time"

	kitconfig "github.com/shouni/go-photo-session-kit/pkg/config"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultOutputDir   = "output/session"
	DefaultTimeout     = 10 * time.Minute
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	PacingDelay      time.Duration
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", kitconfig.DefaultGeminiModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", kitconfig.DefaultImageModel),
		PacingDelay:      kitconfig.DefaultPacingDelay,
	}

	if raw := envutil.GetEnv("PACING_DELAY", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			slog.Warn("PACING_DELAY を解釈できないので既定値を使うのだ", "value", raw)
		} else {
			cfg.PacingDelay = d
		}
	}
	return cfg
}

// GenerateOptions は generate コマンドのフラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入力関連
	Photo      string // --photo: data URL / http(s) / ローカル / gs://
	Age        int    // --age
	Style      string // --style
	NumImages  int    // --num-images
	ExtraNotes string // --notes

	// 出力関連
	OutputDir    string // --output-dir
	EmbedDataURL bool   // --embed-data-url

	// 実行制御
	CompressReference bool          // --compress-reference
	PacingDelay       time.Duration // --pacing-delay
}

// EditOptions は edit コマンドのフラグから渡される実行時のパラメータなのだ。
type EditOptions struct {
	SessionFile  string   // --session
	Edits        []string // --edit "N=instruction"
	EmbedDataURL bool     // --embed-data-url
}

// CommonOptions は全コマンド共通のフラグなのだ。
type CommonOptions struct {
	AIModel     string        // --model
	ImageModel  string        // --image-model
	HTTPTimeout time.Duration // --http-timeout
	Timeout     time.Duration // --timeout
}

// ApplyCommon はフラグで指定されたモデル名で環境変数の値を上書きするのだ。
func (c *Config) ApplyCommon(opts CommonOptions) {
	if opts.AIModel != "" {
		c.GeminiModel = opts.AIModel
	}
	if opts.ImageModel != "" {
		c.GeminiImageModel = opts.ImageModel
	}
}

// ToKitConfig はライブラリ側の Config に変換するのだ。
func (c *Config) ToKitConfig() kitconfig.Config {
	kc := kitconfig.DefaultConfig()
	kc.GeminiAPIKey = c.GeminiAPIKey
	if c.GeminiModel != "" {
		kc.GeminiModel = c.GeminiModel
	}
	if c.GeminiImageModel != "" {
		kc.ImageModel = c.GeminiImageModel
	}
	kc.PacingDelay = c.PacingDelay
	return kc
}
