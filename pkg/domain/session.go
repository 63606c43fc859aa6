package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinAge           = 1
	MaxAge           = 18
	MinImages        = 1
	MaxImages        = 10
	DefaultAge       = 5
	DefaultNumImages = 2
)

// MissingReferenceMessage は参照写真が指定されていない場合の文言です。
const MissingReferenceMessage = "Please upload a photo of the child."

// SessionRequest は1回の撮影セッション生成の入力です。送信後は変更しません。
type SessionRequest struct {
	ReferenceImage Image
	Age            int
	Style          Style
	NumImages      int
	ExtraNotes     string
}

// NewSessionRequest はフォームの初期値を埋めた SessionRequest を返します。
func NewSessionRequest(reference Image) SessionRequest {
	return SessionRequest{
		ReferenceImage: reference,
		Age:            DefaultAge,
		Style:          DefaultStyle,
		NumImages:      DefaultNumImages,
	}
}

// Validate は参照写真を最初に確認し、続いて数値とスタイルの範囲を検証します。
func (r SessionRequest) Validate() error {
	if r.ReferenceImage.IsZero() {
		return &ValidationError{Field: "referenceImage", Message: MissingReferenceMessage}
	}
	if err := r.ReferenceImage.Validate(); err != nil {
		return &ValidationError{Field: "referenceImage", Message: err.Error()}
	}
	if r.Age < MinAge || r.Age > MaxAge {
		return &ValidationError{Field: "age", Message: fmt.Sprintf("age must be between %d and %d, got %d", MinAge, MaxAge, r.Age)}
	}
	if r.NumImages < MinImages || r.NumImages > MaxImages {
		return &ValidationError{Field: "numImages", Message: fmt.Sprintf("number of images must be between %d and %d, got %d", MinImages, MaxImages, r.NumImages)}
	}
	if !r.Style.IsValid() {
		return &ValidationError{Field: "style", Message: fmt.Sprintf("unknown style %q", r.Style)}
	}
	return nil
}

// EditRequest は1スロット分の編集指示です。Index は 0 始まりです。
type EditRequest struct {
	Index       int
	Instruction string
}

// ParseEditSpec は "N=instruction" 形式の文字列を EditRequest に変換します。
// N は利用者に見せている 1 始まりの画像番号です。
func ParseEditSpec(spec string) (EditRequest, error) {
	rawIndex, instruction, found := strings.Cut(spec, "=")
	if !found {
		return EditRequest{}, &ValidationError{Field: "edit", Message: fmt.Sprintf("expected N=instruction, got %q", spec)}
	}

	n, err := strconv.Atoi(strings.TrimSpace(rawIndex))
	if err != nil || n < 1 {
		return EditRequest{}, &ValidationError{Field: "edit", Message: fmt.Sprintf("image number must be a positive integer, got %q", rawIndex)}
	}

	return EditRequest{Index: n - 1, Instruction: instruction}, nil
}
