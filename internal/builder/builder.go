package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-photo-session-kit/pkg/config"
	"github.com/shouni/go-photo-session-kit/pkg/workflow"
)

// BuildManager は、AppContext の依存関係からワークフローの Manager を構築します。
// override はコマンドごとのフラグでライブラリ側の設定を上書きします。
func BuildManager(ctx context.Context, appCtx *AppContext, override func(*config.Config)) (*workflow.Manager, error) {
	kitCfg := appCtx.Config.ToKitConfig()
	if override != nil {
		override(&kitCfg)
	}

	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:     kitCfg,
		HTTPClient: appCtx.httpClient,
		Reader:     appCtx.Reader,
		Writer:     appCtx.Writer,
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}
	return manager, nil
}
