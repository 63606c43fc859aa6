package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shouni/go-photo-session-kit/pkg/domain"
)

// IdentityPreamble は各構成案の前に付ける顔立ち保持の指示です。
const IdentityPreamble = "IMPORTANT: Use the reference image to extract the child's facial features with 100% accuracy and preserve them. Do NOT change face shape or identity. Apply the following theme:\n\n"

// conceptIndent は構成案 JSON のインデント幅です。
const conceptIndent = "  "

// ImageInstructionBuilder は構成案を JSON に直列化し、前置きと連結します。
type ImageInstructionBuilder struct {
	preamble string
}

// NewImageInstructionBuilder は既定の前置きを使う ImageInstructionBuilder を返します。
func NewImageInstructionBuilder() *ImageInstructionBuilder {
	return &ImageInstructionBuilder{preamble: IdentityPreamble}
}

// BuildImageInstruction は前置きと2スペースインデントの構成案 JSON を連結した指示文を返します。
func (b *ImageInstructionBuilder) BuildImageInstruction(concept domain.PhotoConcept) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", conceptIndent)
	if err := enc.Encode(concept); err != nil {
		return "", fmt.Errorf("構成案の JSON 変換に失敗しました: %w", err)
	}
	return b.preamble + string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
