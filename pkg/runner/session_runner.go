package runner

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/shouni/go-photo-session-kit/pkg/domain"
	"github.com/shouni/go-photo-session-kit/pkg/generator"
	"github.com/shouni/go-photo-session-kit/pkg/prompts"
)

// SessionRunner は構成案の生成から画像の逐次生成までを1回の実行として管理します。
type SessionRunner struct {
	conceptPrompt   prompts.ConceptPrompt
	imagePrompt     prompts.ImagePrompt
	concepts        generator.ConceptGenerator
	images          generator.ImageGenerator
	pacer           Pacer
	attachReference bool
}

// NewSessionRunner は、プロンプトビルダー、2つの生成クライアント、Pacer を注入して SessionRunner を初期化します。
// attachReference が true の場合、構成案の生成にも参照写真を添付します。
func NewSessionRunner(
	conceptPrompt prompts.ConceptPrompt,
	imagePrompt prompts.ImagePrompt,
	concepts generator.ConceptGenerator,
	images generator.ImageGenerator,
	pacer Pacer,
	attachReference bool,
) (*SessionRunner, error) {
	if conceptPrompt == nil || imagePrompt == nil {
		return nil, fmt.Errorf("プロンプトビルダーは必須です")
	}
	if concepts == nil {
		return nil, fmt.Errorf("構成案の生成クライアントは必須です")
	}
	if images == nil {
		return nil, fmt.Errorf("画像の生成クライアントは必須です")
	}
	if pacer == nil {
		return nil, fmt.Errorf("pacer は必須です")
	}
	return &SessionRunner{
		conceptPrompt:   conceptPrompt,
		imagePrompt:     imagePrompt,
		concepts:        concepts,
		images:          images,
		pacer:           pacer,
		attachReference: attachReference,
	}, nil
}

// Run はすべての画像が揃うか失敗するまで実行し、その時点の結果を返します。
// 失敗した場合も、それまでに生成された画像は結果とセッションに残ります。
func (r *SessionRunner) Run(ctx context.Context, sess *Session, req domain.SessionRequest) (domain.ResultSet, error) {
	for _, err := range r.Stream(ctx, sess, req) {
		if err != nil {
			if sess == nil {
				return domain.ResultSet{}, err
			}
			return sess.Results(), err
		}
	}
	return sess.Results(), nil
}

// Stream は画像が1枚追加されるたびに結果のスナップショットを返すシーケンスを返します。
// 失敗時はその時点の結果とエラーを1度だけ返して終了します。
// 利用側が反復を途中でやめると実行は中断され、以降の画像生成は行われません。
func (r *SessionRunner) Stream(ctx context.Context, sess *Session, req domain.SessionRequest) iter.Seq2[domain.ResultSet, error] {
	return func(yield func(domain.ResultSet, error) bool) {
		r.run(ctx, sess, req, yield)
	}
}

func (r *SessionRunner) run(ctx context.Context, sess *Session, req domain.SessionRequest, emit func(domain.ResultSet, error) bool) {
	if sess == nil {
		emit(domain.ResultSet{}, fmt.Errorf("session は必須です"))
		return
	}

	// 1. バリデーション (ネットワーク呼び出しより前)
	if err := req.Validate(); err != nil {
		sess.reportError(err)
		emit(sess.Results(), err)
		return
	}

	if err := sess.beginRun(); err != nil {
		emit(sess.Results(), err)
		return
	}

	fail := func(err error) {
		slog.ErrorContext(ctx, "撮影セッションの生成に失敗しました", "session_id", sess.ID(), "error", err)
		sess.setState(domain.Failed{Err: err})
		emit(sess.Results(), err)
	}

	slog.InfoContext(ctx, "撮影セッションの生成を開始します",
		"session_id", sess.ID(),
		"age", req.Age,
		"style", req.Style,
		"num_images", req.NumImages,
	)

	// 2. 構成案の生成
	prompt, err := r.conceptPrompt.Build(prompts.NewTemplateData(req))
	if err != nil {
		fail(fmt.Errorf("構成案プロンプトの構築に失敗しました: %w", err))
		return
	}

	var reference *domain.Image
	if r.attachReference {
		reference = &req.ReferenceImage
	}

	concepts, err := r.concepts.GenerateConcepts(ctx, prompt, r.conceptPrompt.SystemInstruction(), reference)
	if err != nil {
		fail(err)
		return
	}

	switch {
	case len(concepts) == 0:
		fail(&domain.ConceptGenerationError{Reason: domain.ReasonEmptyResult})
		return
	case len(concepts) > req.NumImages:
		slog.WarnContext(ctx, "要求より多くの構成案が返されたため切り詰めます", "requested", req.NumImages, "received", len(concepts))
		concepts = concepts[:req.NumImages]
	case len(concepts) < req.NumImages:
		slog.WarnContext(ctx, "要求より少ない構成案が返されました", "requested", req.NumImages, "received", len(concepts))
	}
	sess.setConcepts(concepts)

	// 3. 画像を1枚ずつ生成
	total := len(concepts)
	for i, concept := range concepts {
		if err := ctx.Err(); err != nil {
			fail(err)
			return
		}
		sess.setState(domain.GeneratingImage{Index: i, Total: total})

		instruction, err := r.imagePrompt.BuildImageInstruction(concept)
		if err != nil {
			fail(fmt.Errorf("画像 %d の指示文の構築に失敗しました: %w", i+1, err))
			return
		}

		slog.InfoContext(ctx, "画像を生成しています", "index", i+1, "total", total, "title", concept.PromptTitle)
		resp, err := r.images.GenerateImage(ctx, req.ReferenceImage, instruction)
		if err != nil {
			fail(fmt.Errorf("画像 %d の生成に失敗しました: %w", i+1, err))
			return
		}

		snapshot := sess.appendResult(domain.NewImageFromResponse(resp))
		last := i == total-1
		if last {
			sess.setState(domain.Done{Count: total})
		}
		if !emit(snapshot, nil) && !last {
			slog.WarnContext(ctx, "呼び出し側が結果の受け取りをやめたため生成を中断します", "session_id", sess.ID(), "completed", i+1)
			sess.setState(domain.Failed{Err: domain.ErrRunAbandoned})
			return
		}
		if last {
			break
		}

		// 4. 次のリクエストまで待機 (最後の画像の後は待たない)
		if err := r.pacer.Pause(ctx); err != nil {
			fail(err)
			return
		}
	}

	slog.InfoContext(ctx, "撮影セッションの生成が完了しました", "session_id", sess.ID(), "count", total)
}
