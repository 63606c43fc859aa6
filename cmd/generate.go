package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-photo-session-kit/internal/config"
	"github.com/shouni/go-photo-session-kit/internal/pipeline"
	kitconfig "github.com/shouni/go-photo-session-kit/pkg/config"
	"github.com/shouni/go-photo-session-kit/pkg/domain"

	"github.com/spf13/cobra"
)

var generateOpts config.GenerateOptions

// generateCmd は、参照写真から撮影セッションの構成案と画像を生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "参照写真から撮影セッションの画像を生成するのだ。",
	Long: `子どもの参照写真と年齢・スタイルを基に、AIが写真ごとの構成案を考え、
1枚ずつ画像を生成するのだ。出力は画像ファイルと session.json（マニフェスト）なのだよ。`,
	RunE: generateCommand,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateOpts.Photo, "photo", "p", "", "参照写真（data URL / http(s) URL / ローカルパス / gs://）なのだ。")
	f.IntVarP(&generateOpts.Age, "age", "a", domain.DefaultAge, fmt.Sprintf("子どもの年齢（%d〜%d）なのだ。", domain.MinAge, domain.MaxAge))
	f.StringVarP(&generateOpts.Style, "style", "s", string(domain.DefaultStyle), "撮影スタイルなのだ（一覧は styles コマンドで確認できるのだ）。")
	f.IntVarP(&generateOpts.NumImages, "num-images", "n", domain.DefaultNumImages, fmt.Sprintf("生成する画像の枚数（%d〜%d）なのだ。", domain.MinImages, domain.MaxImages))
	f.StringVar(&generateOpts.ExtraNotes, "notes", "", "構成案に追加したい希望なのだ。")
	f.StringVarP(&generateOpts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "保存先ディレクトリ（ローカル or gs://...）なのだ。")
	f.BoolVar(&generateOpts.EmbedDataURL, "embed-data-url", false, "session.json に画像の data URL も埋め込むのだ。")
	f.BoolVar(&generateOpts.CompressReference, "compress-reference", false, "参照写真を JPEG に圧縮してから送るのだ。")
	f.DurationVar(&generateOpts.PacingDelay, "pacing-delay", kitconfig.DefaultPacingDelay, "画像生成リクエストの間隔なのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd.Context())
	defer cancel()

	// 1. 必須チェック
	if strings.TrimSpace(generateOpts.Photo) == "" {
		return fmt.Errorf("%s (--photo)", domain.MissingReferenceMessage)
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := loadConfig()
	if !cmd.Flags().Changed("pacing-delay") {
		generateOpts.PacingDelay = cfg.PacingDelay
	}

	slog.Info("撮影セッション生成パイプラインを起動するのだ！",
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel,
		"style", generateOpts.Style,
		"output", generateOpts.OutputDir)

	result, err := pipeline.ExecuteGenerate(ctx, cfg, generateOpts, commonOpts.HTTPTimeout)
	if err != nil {
		slog.Error("処理を完了できなかったのだ", "message", domain.UserMessage(err))
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！", "manifest", result.ManifestPath, "images", len(result.ImagePaths))
	return nil
}

// withTimeout は --timeout が正の値なら期限付きの context を返すのだ。
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if commonOpts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, commonOpts.Timeout)
}
