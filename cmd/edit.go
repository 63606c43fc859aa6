package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-photo-session-kit/internal/config"
	"github.com/shouni/go-photo-session-kit/internal/pipeline"
	"github.com/shouni/go-photo-session-kit/pkg/domain"

	"github.com/spf13/cobra"
)

var editOpts config.EditOptions

// editCmd は、保存済みセッションの画像を指示に従って編集するのだ。
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "生成済みの画像を指示に従って編集するのだ。",
	Long: `generate が出力した session.json を読み込み、"番号=指示" で指定した画像だけを
編集して新しいファイルとして保存するのだ。番号は 1 から数えるのだよ。`,
	Example: `  kids-photo-session edit --session output/session/session.json --edit "2=add a red balloon"`,
	RunE:    editCommand,
}

func init() {
	f := editCmd.Flags()
	f.StringVarP(&editOpts.SessionFile, "session", "f", "", "generate が出力した session.json のパスなのだ。")
	f.StringArrayVarP(&editOpts.Edits, "edit", "e", nil, `"番号=指示" の形式の編集指定なのだ（複数指定できるのだ）。`)
	f.BoolVar(&editOpts.EmbedDataURL, "embed-data-url", false, "session.json に画像の data URL も埋め込むのだ。")
	_ = editCmd.MarkFlagRequired("session")
}

func editCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd.Context())
	defer cancel()

	cfg := loadConfig()
	slog.Info("画像編集パイプラインを起動するのだ！",
		"image_model", cfg.GeminiImageModel,
		"session", editOpts.SessionFile,
		"edits", len(editOpts.Edits))

	result, err := pipeline.ExecuteEdit(ctx, cfg, editOpts, commonOpts.HTTPTimeout)
	if err != nil {
		slog.Error("処理を完了できなかったのだ", "message", domain.UserMessage(err))
		return fmt.Errorf("画像の編集中にエラーが発生したのだ: %w", err)
	}

	slog.Info("画像の編集が完了したのだ！", "manifest", result.ManifestPath, "images", result.ImagePaths)
	return nil
}
