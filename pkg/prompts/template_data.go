package prompts

import (
	_ "embed"

	"github.com/shouni/go-photo-session-kit/pkg/domain"
)

// TemplateData は構成案テンプレートに流し込む値です。参照写真そのものは含みません。
type TemplateData struct {
	NumImages  int
	Age        int
	Style      string
	ExtraNotes string
}

// NewTemplateData は SessionRequest からテンプレート用の値を取り出します。
func NewTemplateData(req domain.SessionRequest) TemplateData {
	return TemplateData{
		NumImages:  req.NumImages,
		Age:        req.Age,
		Style:      req.Style.String(),
		ExtraNotes: req.ExtraNotes,
	}
}

var (
	//go:embed concept_generation.md
	ConceptGenerationPrompt string
	//go:embed system_instruction.md
	SystemInstructionPrompt string
)
