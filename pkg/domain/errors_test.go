package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nilは空文字",
			err:  nil,
			want: "",
		},
		{
			name: "解析失敗の構成案エラー",
			err:  &ConceptGenerationError{Reason: ReasonInvalidFormat, Err: errors.New("unexpected token")},
			want: "The AI returned an invalid format. Please try again.",
		},
		{
			name: "空の構成案エラー",
			err:  &ConceptGenerationError{Reason: ReasonEmptyResult},
			want: "The AI failed to generate any photo concepts. Please try again.",
		},
		{
			name: "ラップされた画像生成エラー",
			err:  fmt.Errorf("image 2: %w", &ImageGenerationError{Reason: ReasonNoImageData}),
			want: "Image generation failed. No image data received.",
		},
		{
			name: "画像ソース不正の編集エラー",
			err:  &EditError{Index: 0, Reason: ReasonInvalidImageSource, Err: ErrInvalidDataURL},
			want: "Invalid image source for editing.",
		},
		{
			name: "型のないエラーはそのまま",
			err:  errors.New("network down"),
			want: "network down",
		},
		{
			name: "空のエラーは既定の文言",
			err:  errors.New(""),
			want: DefaultErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestErrorChains(t *testing.T) {
	t.Run("構成案エラーは原因をUnwrapできるのだ", func(t *testing.T) {
		cause := errors.New("boom")
		err := fmt.Errorf("wrap: %w", &ConceptGenerationError{Reason: ReasonInvalidFormat, Err: cause})

		var cErr *ConceptGenerationError
		assert.True(t, errors.As(err, &cErr))
		assert.Equal(t, ReasonInvalidFormat, cErr.Reason)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("編集エラーはセンチネルをUnwrapできるのだ", func(t *testing.T) {
		err := &EditError{Index: 3, Reason: ReasonEditInProgress, Err: ErrEditInProgress}
		assert.ErrorIs(t, err, ErrEditInProgress)
		assert.Contains(t, err.Error(), "image 4")
	})

	t.Run("終了理由つきの画像生成エラーなのだ", func(t *testing.T) {
		err := &ImageGenerationError{Reason: ReasonNoImageData, FinishReason: "SAFETY"}
		assert.Equal(t, "image generation failed: no image data received (finish reason: SAFETY)", err.Error())
	})
}

func TestRunState_String(t *testing.T) {
	assert.Equal(t, "Step 1/2: Generating creative photo concepts...", GeneratingConcepts{}.String())
	assert.Equal(t, "Step 2/2: Generating image 2 of 3...", GeneratingImage{Index: 1, Total: 3}.String())
	assert.Equal(t, "The AI failed to generate any photo concepts. Please try again.",
		Failed{Err: &ConceptGenerationError{Reason: ReasonEmptyResult}}.String())

	assert.True(t, IsGenerating(GeneratingConcepts{}))
	assert.True(t, IsGenerating(GeneratingImage{Index: 0, Total: 1}))
	assert.False(t, IsGenerating(Idle{}))
	assert.False(t, IsGenerating(Editing{Index: 0}))
	assert.False(t, IsGenerating(Done{Count: 2}))
}
