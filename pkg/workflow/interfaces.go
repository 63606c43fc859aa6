package workflow

import (
	"context"
	"iter"

	"github.com/shouni/go-photo-session-kit/pkg/asset"
	"github.com/shouni/go-photo-session-kit/pkg/config"
	"github.com/shouni/go-photo-session-kit/pkg/domain"
	"github.com/shouni/go-photo-session-kit/pkg/generator"
	"github.com/shouni/go-photo-session-kit/pkg/prompts"
	"github.com/shouni/go-photo-session-kit/pkg/publisher"
	"github.com/shouni/go-photo-session-kit/pkg/runner"
)

// Workflow は、撮影セッションの各工程を担当する Runner を構築するためのインターフェースを定義します。
type Workflow interface {
	BuildSessionRunner() (SessionRunner, error)
	BuildEditRunner() (EditRunner, error)
	BuildPublisher(embedDataURL bool) (Publisher, error)
	BuildReferenceLoader() ReferenceLoader
}

// ManagerArgs は Manager の初期化に必要な依存関係です。
type ManagerArgs struct {
	Config config.Config
	// HTTPClient は http(s) の参照写真を取得します。httpkit のクライアントを想定しています。
	HTTPClient asset.Fetcher
	// Reader と Writer はローカルや GCS の入出力です。remoteio の実装を想定しています。
	Reader publisher.InputReader
	Writer publisher.OutputWriter
	// ContentClient が nil の場合は Config.GeminiAPIKey から genai クライアントを作成します。
	ContentClient generator.ContentGenerator
	// AIClient は画像の生成と編集に使います。nil の場合は gemini.NewClient で作成します。
	AIClient generator.PartsGenerator
	// ConceptPrompt と ImagePrompt が nil の場合は組み込みのテンプレートを使います。
	ConceptPrompt prompts.ConceptPrompt
	ImagePrompt   prompts.ImagePrompt
}

// SessionRunner は、参照写真と設定から構成案を作り、画像を1枚ずつ生成する責務を持ちます。
type SessionRunner interface {
	Run(ctx context.Context, sess *runner.Session, req domain.SessionRequest) (domain.ResultSet, error)
	Stream(ctx context.Context, sess *runner.Session, req domain.SessionRequest) iter.Seq2[domain.ResultSet, error]
}

// EditRunner は、生成済みの画像を指示に従って編集し、該当スロットを置き換える責務を持ちます。
type EditRunner interface {
	Edit(ctx context.Context, sess *runner.Session, index int, instruction string) (domain.Image, error)
	EditBatch(ctx context.Context, sess *runner.Session, requests []domain.EditRequest) ([]domain.EditResult, error)
}

// Publisher は、生成結果とマニフェストの保存と読み込みを担当します。
type Publisher interface {
	Publish(ctx context.Context, outputDir string, snap publisher.Snapshot) (publisher.PublishResult, error)
	ApplyEdits(ctx context.Context, manifestPath string, manifest *publisher.Manifest, requests []domain.EditRequest, results []domain.EditResult) (publisher.PublishResult, error)
	LoadManifest(ctx context.Context, manifestPath string) (*publisher.Manifest, domain.ResultSet, error)
}

// ReferenceLoader は、さまざまなソースから参照写真を読み込みます。
type ReferenceLoader interface {
	Load(ctx context.Context, source string) (domain.Image, error)
}
