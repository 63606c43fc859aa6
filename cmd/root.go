package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-photo-session-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// commonOpts は全サブコマンドで共有するフラグの値なのだ。
var commonOpts config.CommonOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- AIモデル設定 ---
	rootCmd.PersistentFlags().StringVar(&commonOpts.AIModel, "model", "", "構成案の生成に使う Gemini モデル名なのだ（未指定なら GEMINI_MODEL）。")
	rootCmd.PersistentFlags().StringVar(&commonOpts.ImageModel, "image-model", "", "画像の生成と編集に使う Gemini モデル名なのだ（未指定なら IMAGE_GEMINI_MODEL）。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&commonOpts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "参照写真を取得するWebリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&commonOpts.Timeout, "timeout", config.DefaultTimeout, "コマンド全体のタイムアウトなのだ。0 なら無制限なのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// styles は API を呼ばないのでキーがなくても動くのだ
	if cmd.Name() == stylesCmd.Name() {
		return nil
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// loadConfig は環境変数を読み込み、共通フラグで上書きした設定を返すのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.ApplyCommon(commonOpts)
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"kids-photo-session",
		addAppFlags,
		preRunAppE,
		generateCmd,
		editCmd,
		stylesCmd,
	)
}
