package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayPacer_Pause(t *testing.T) {
	t.Run("指定時間だけ待つのだ", func(t *testing.T) {
		p := NewDelayPacer(20 * time.Millisecond)
		start := time.Now()
		assert.NoError(t, p.Pause(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("0なら待たないのだ", func(t *testing.T) {
		p := NewDelayPacer(0)
		assert.NoError(t, p.Pause(context.Background()))
		assert.Zero(t, p.Delay())
	})

	t.Run("キャンセルされたらすぐに戻るのだ", func(t *testing.T) {
		p := NewDelayPacer(time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		assert.ErrorIs(t, p.Pause(ctx), context.Canceled)
		assert.Less(t, time.Since(start), time.Minute)
	})
}
