package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-photo-session-kit/pkg/domain"
	"github.com/shouni/go-photo-session-kit/pkg/generator"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// EditRunner は生成済みの画像に自由記述の指示を与えて再生成し、該当スロットだけを置き換えます。
type EditRunner struct {
	images      generator.ImageGenerator
	limiter     *rate.Limiter
	concurrency int
}

// NewEditRunner は EditRunner を初期化します。
// interval が 0 より大きい場合、編集リクエストは interval ごと (burst 件まで連続可) に制限されます。
func NewEditRunner(images generator.ImageGenerator, interval time.Duration, burst int) (*EditRunner, error) {
	if images == nil {
		return nil, fmt.Errorf("画像の生成クライアントは必須です")
	}
	if burst < 1 {
		burst = 1
	}

	var limiter *rate.Limiter
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), burst)
	}
	return &EditRunner{
		images:      images,
		limiter:     limiter,
		concurrency: burst,
	}, nil
}

// Edit は index 番目 (0 始まり) の画像を instruction で編集します。
// 空白だけの指示は何もせず現在の画像を返します。失敗した場合、スロットは元の画像のままです。
func (r *EditRunner) Edit(ctx context.Context, sess *Session, index int, instruction string) (domain.Image, error) {
	if sess == nil {
		return domain.Image{}, fmt.Errorf("session は必須です")
	}

	if strings.TrimSpace(instruction) == "" {
		current, ok := sess.Image(index)
		if !ok {
			return domain.Image{}, &domain.EditError{Index: index, Reason: domain.ReasonNoImageAtIndex}
		}
		slog.DebugContext(ctx, "編集指示が空のため何もしません", "index", index+1)
		return current, nil
	}

	stored, gen, err := sess.beginEdit(index)
	if err != nil {
		return domain.Image{}, err
	}

	edited, err := r.edit(ctx, index, stored, instruction)
	if err != nil {
		slog.WarnContext(ctx, "画像の編集に失敗しました", "index", index+1, "error", err)
		if staleErr := sess.finishEdit(index, gen, domain.Image{}, err); staleErr != nil {
			return domain.Image{}, errors.Join(err, staleErr)
		}
		return domain.Image{}, err
	}

	if err := sess.finishEdit(index, gen, edited, nil); err != nil {
		slog.WarnContext(ctx, "編集中にセッションが再実行されたため結果を破棄します", "index", index+1)
		return domain.Image{}, err
	}

	slog.InfoContext(ctx, "画像を編集しました", "index", index+1, "mime_type", edited.MimeType)
	return edited, nil
}

func (r *EditRunner) edit(ctx context.Context, index int, stored domain.Image, instruction string) (domain.Image, error) {
	if err := stored.Validate(); err != nil {
		return domain.Image{}, &domain.EditError{Index: index, Reason: domain.ReasonInvalidImageSource, Err: err}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return domain.Image{}, err
		}
	}

	resp, err := r.images.GenerateImage(ctx, stored, instruction)
	if err != nil {
		return domain.Image{}, fmt.Errorf("画像 %d の編集に失敗しました: %w", index+1, err)
	}
	return domain.NewImageFromResponse(resp), nil
}

// EditBatch は異なるスロットへの編集を並行して実行します。
// 同じスロットが2回以上含まれる場合は何も実行せずに ValidationError を返します。
// 個々の結果は EditResult に格納され、失敗があればそれらを結合したエラーも返します。
func (r *EditRunner) EditBatch(ctx context.Context, sess *Session, requests []domain.EditRequest) ([]domain.EditResult, error) {
	seen := make(map[int]struct{}, len(requests))
	for _, req := range requests {
		if _, dup := seen[req.Index]; dup {
			return nil, &domain.ValidationError{
				Field:   "edits",
				Message: fmt.Sprintf("image %d is listed more than once", req.Index+1),
			}
		}
		seen[req.Index] = struct{}{}
	}

	results := make([]domain.EditResult, len(requests))
	var eg errgroup.Group
	eg.SetLimit(r.concurrency)

	for i, req := range requests {
		eg.Go(func() error {
			img, err := r.Edit(ctx, sess, req.Index, req.Instruction)
			results[i] = domain.EditResult{Index: req.Index, Image: img, Err: err}
			return nil
		})
	}
	_ = eg.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return results, errors.Join(errs...)
}
