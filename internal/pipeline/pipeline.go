package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-photo-session-kit/internal/builder"
	"github.com/shouni/go-photo-session-kit/internal/config"
	kitconfig "github.com/shouni/go-photo-session-kit/pkg/config"
	"github.com/shouni/go-photo-session-kit/pkg/domain"
	"github.com/shouni/go-photo-session-kit/pkg/publisher"
	"github.com/shouni/go-photo-session-kit/pkg/runner"
	"github.com/shouni/go-photo-session-kit/pkg/workflow"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// ExecuteGenerate は、参照写真から構成案と画像を生成し、出力先へ保存するのだ。
// 途中で失敗しても、それまでに生成できた画像は保存するのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config, opts config.GenerateOptions, httpTimeout time.Duration) (publisher.PublishResult, error) {
	appCtx, err := setupAppContext(ctx, cfg, httpTimeout)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	manager, err := builder.BuildManager(ctx, appCtx, func(kc *kitconfig.Config) {
		kc.CompressReference = opts.CompressReference
		kc.PacingDelay = opts.PacingDelay
	})
	if err != nil {
		return publisher.PublishResult{}, err
	}

	return GenerateSession(ctx, manager, opts)
}

// ExecuteEdit は、保存済みのセッションを読み込んで指定された画像を編集し、マニフェストを更新するのだ。
func ExecuteEdit(ctx context.Context, cfg *config.Config, opts config.EditOptions, httpTimeout time.Duration) (publisher.PublishResult, error) {
	appCtx, err := setupAppContext(ctx, cfg, httpTimeout)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	manager, err := builder.BuildManager(ctx, appCtx, nil)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	return EditSession(ctx, manager, opts)
}

// GenerateSession は Workflow から各 Runner を組み立てて生成と保存を行うのだ。
func GenerateSession(ctx context.Context, wf workflow.Workflow, opts config.GenerateOptions) (publisher.PublishResult, error) {
	style, err := domain.ParseStyle(opts.Style)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	reference, err := wf.BuildReferenceLoader().Load(ctx, opts.Photo)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	req := domain.SessionRequest{
		ReferenceImage: reference,
		Age:            opts.Age,
		Style:          style,
		NumImages:      opts.NumImages,
		ExtraNotes:     opts.ExtraNotes,
	}

	sessionRunner, err := wf.BuildSessionRunner()
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("SessionRunnerの構築に失敗したのだ: %w", err)
	}
	pub, err := wf.BuildPublisher(opts.EmbedDataURL)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("Publisherの構築に失敗したのだ: %w", err)
	}

	sess := runner.NewSession()
	unsubscribe := sess.Subscribe(progressObserver(ctx))
	defer unsubscribe()

	slog.InfoContext(ctx, "撮影セッションの生成を開始するのだ...",
		"session_id", sess.ID(),
		"style", style.String(),
		"age", req.Age,
		"num_images", req.NumImages)

	results, runErr := sessionRunner.Run(ctx, sess, req)
	if len(results) == 0 {
		if runErr != nil {
			return publisher.PublishResult{}, fmt.Errorf("撮影セッションの生成に失敗したのだ: %w", runErr)
		}
		return publisher.PublishResult{}, nil
	}

	// キャンセル済みの ctx でも途中までの成果物を保存できるようにするのだ
	published, pubErr := pub.Publish(context.WithoutCancel(ctx), opts.OutputDir, publisher.Snapshot{
		SessionID: sess.ID(),
		Request:   req,
		Concepts:  sess.Concepts(),
		Results:   results,
	})
	if pubErr != nil {
		pubErr = fmt.Errorf("成果物の保存に失敗したのだ: %w", pubErr)
	}
	if runErr != nil {
		runErr = fmt.Errorf("撮影セッションの生成に失敗したのだ (%d 枚は保存済み): %w", len(results), runErr)
	}
	if err := errors.Join(runErr, pubErr); err != nil {
		return published, err
	}

	slog.InfoContext(ctx, "撮影セッションの保存が完了したのだ！", "manifest", published.ManifestPath, "images", len(published.ImagePaths))
	return published, nil
}

// EditSession はマニフェストから復元したセッションに編集を適用するのだ。
// 一部の編集が失敗しても、成功した分はマニフェストに反映するのだ。
func EditSession(ctx context.Context, wf workflow.Workflow, opts config.EditOptions) (publisher.PublishResult, error) {
	if len(opts.Edits) == 0 {
		return publisher.PublishResult{}, &domain.ValidationError{Field: "edit", Message: "at least one --edit is required"}
	}

	requests := make([]domain.EditRequest, 0, len(opts.Edits))
	for _, spec := range opts.Edits {
		req, err := domain.ParseEditSpec(spec)
		if err != nil {
			return publisher.PublishResult{}, err
		}
		requests = append(requests, req)
	}

	pub, err := wf.BuildPublisher(opts.EmbedDataURL)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("Publisherの構築に失敗したのだ: %w", err)
	}
	editRunner, err := wf.BuildEditRunner()
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("EditRunnerの構築に失敗したのだ: %w", err)
	}

	manifest, results, err := pub.LoadManifest(ctx, opts.SessionFile)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	sess := runner.NewSessionFromResults(manifest.SessionID, manifest.Concepts, results)
	unsubscribe := sess.Subscribe(progressObserver(ctx))
	defer unsubscribe()

	slog.InfoContext(ctx, "画像の編集を開始するのだ...", "session_id", sess.ID(), "edits", len(requests))

	editResults, editErr := editRunner.EditBatch(ctx, sess, requests)
	if editResults == nil {
		return publisher.PublishResult{}, editErr
	}

	applied, applyErr := pub.ApplyEdits(context.WithoutCancel(ctx), opts.SessionFile, manifest, requests, editResults)
	if applyErr != nil {
		applyErr = fmt.Errorf("編集結果の保存に失敗したのだ: %w", applyErr)
	}
	if err := errors.Join(editErr, applyErr); err != nil {
		return applied, err
	}

	slog.InfoContext(ctx, "画像の編集が完了したのだ！", "manifest", applied.ManifestPath, "images", len(applied.ImagePaths))
	return applied, nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config, httpTimeout time.Duration) (*builder.AppContext, error) {
	if httpTimeout <= 0 {
		httpTimeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(httpTimeout)

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.InputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, reader, writer)
	return &appCtx, nil
}

// progressObserver は状態の変化と受け取った画像の枚数をログに出すのだ。
func progressObserver(ctx context.Context) runner.Observer {
	return runner.ObserverFuncs{
		State: func(state domain.RunState) {
			if failed, ok := state.(domain.Failed); ok {
				slog.WarnContext(ctx, "処理が失敗したのだ", "message", domain.UserMessage(failed.Err))
				return
			}
			slog.InfoContext(ctx, "状態が変わったのだ", "state", state.String())
		},
		Results: func(results domain.ResultSet) {
			slog.InfoContext(ctx, "画像を受け取ったのだ", "count", results.Len())
		},
	}
}
