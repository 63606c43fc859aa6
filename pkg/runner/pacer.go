package runner

import (
	"context"
	"time"
)

// Pacer は連続する画像生成リクエストの間に挟む待機を表します。
type Pacer interface {
	Pause(ctx context.Context) error
}

// DelayPacer は固定時間だけ待機する Pacer です。
type DelayPacer struct {
	delay time.Duration
}

// NewDelayPacer は待機時間を指定して DelayPacer を生成します。0 以下なら待機しません。
func NewDelayPacer(delay time.Duration) *DelayPacer {
	return &DelayPacer{delay: delay}
}

// Delay は設定された待機時間を返します。
func (p *DelayPacer) Delay() time.Duration {
	return p.delay
}

// Pause は待機時間が経過するか ctx がキャンセルされるまでブロックします。
func (p *DelayPacer) Pause(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
