package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultErrorMessage は利用者に見せられる理由が取り出せない場合の文言です。
const DefaultErrorMessage = "An unknown error occurred."

var (
	// ErrRunInProgress は同じセッションで生成が進行中のときに返されます。
	ErrRunInProgress = errors.New("a generation run is already in progress")
	// ErrEditInProgress は同じインデックスへの編集が進行中のときに返されます。
	ErrEditInProgress = errors.New("an edit is already in progress for this image")
	// ErrStaleEdit は編集中にセッションが再生成され、結果を書き戻せないときに返されます。
	ErrStaleEdit = errors.New("the session was restarted while the edit was in flight")
	// ErrRunAbandoned は呼び出し側が結果の受け取りをやめたときに返されます。
	ErrRunAbandoned = errors.New("the generation run was abandoned by the caller")
	// ErrInvalidDataURL は data URL を MIME タイプとペイロードに分解できないときに返されます。
	ErrInvalidDataURL = errors.New("invalid data URL")
)

// ConceptFailureReason は構成案生成が失敗した理由の分類です。
type ConceptFailureReason string

const (
	ReasonInvalidFormat ConceptFailureReason = "invalid format"
	ReasonEmptyResult   ConceptFailureReason = "empty result"
)

const (
	// ReasonNoImageData は応答に画像パーツが含まれていなかったことを示します。
	ReasonNoImageData = "no image data received"
	// ReasonInvalidImageSource は保存済み画像を分解できなかったことを示します。
	ReasonInvalidImageSource = "invalid image source"
	// ReasonNoImageAtIndex は指定スロットに画像がまだ存在しないことを示します。
	ReasonNoImageAtIndex = "no image at index"
	// ReasonEditInProgress は同じスロットの編集が進行中であることを示します。
	ReasonEditInProgress = "edit already in progress"
)

// userMessager は利用者向けの文言を持つエラーが実装します。
type userMessager interface {
	UserMessage() string
}

// ValidationError はネットワーク呼び出し前に検出された入力不備です。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// UserMessage は入力フォームにそのまま表示できる文言を返します。
func (e *ValidationError) UserMessage() string {
	return e.Message
}

// ConceptGenerationError は構成案の応答が解析できない、または空だった場合のエラーです。
type ConceptGenerationError struct {
	Reason ConceptFailureReason
	Err    error
}

func (e *ConceptGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("concept generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("concept generation failed: %s", e.Reason)
}

func (e *ConceptGenerationError) Unwrap() error {
	return e.Err
}

func (e *ConceptGenerationError) UserMessage() string {
	if e.Reason == ReasonEmptyResult {
		return "The AI failed to generate any photo concepts. Please try again."
	}
	return "The AI returned an invalid format. Please try again."
}

// ImageGenerationError は画像生成の応答に画像データが含まれなかった場合のエラーです。
type ImageGenerationError struct {
	Reason       string
	FinishReason string
}

func (e *ImageGenerationError) Error() string {
	if e.FinishReason != "" {
		return fmt.Sprintf("image generation failed: %s (finish reason: %s)", e.Reason, e.FinishReason)
	}
	return "image generation failed: " + e.Reason
}

func (e *ImageGenerationError) UserMessage() string {
	return "Image generation failed. No image data received."
}

// EditError は編集の前提条件を満たさない場合のエラーです。
// Index は 0 始まりで、メッセージには利用者向けの 1 始まりの番号を出します。
type EditError struct {
	Index  int
	Reason string
	Err    error
}

func (e *EditError) Error() string {
	msg := fmt.Sprintf("edit failed for image %d: %s", e.Index+1, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EditError) Unwrap() error {
	return e.Err
}

func (e *EditError) UserMessage() string {
	if e.Reason == ReasonInvalidImageSource {
		return "Invalid image source for editing."
	}
	return e.Error()
}

// UserMessage はエラーチェーンから利用者向けの文言を取り出します。
// 該当する型がなければエラー文字列を、空であれば既定の文言を返します。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var um userMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
