package builder

import (
	"github.com/shouni/go-photo-session-kit/internal/config"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数とフラグから組み立てた設定です（APIキー、モデル名など）。
	Reader     remoteio.InputReader    // Readerは、参照写真やマニフェストの読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter   // Writerは、生成された画像とマニフェストを保存するための出力先です。
	httpClient httpkit.HTTPClient // httpClient は参照写真の取得に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.HTTPClient,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		httpClient: httpClient,
		Reader:     reader,
		Writer:     writer,
	}
}
