package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

const conceptTemplateName = "concept_generation"

// TextPromptBuilder は埋め込みテンプレートから構成案生成用のプロンプトを組み立てます。
type TextPromptBuilder struct {
	template          *template.Template
	systemInstruction string
}

// NewTextPromptBuilder は埋め込みテンプレートを解析して TextPromptBuilder を初期化します。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	return newTextPromptBuilder(ConceptGenerationPrompt, SystemInstructionPrompt)
}

func newTextPromptBuilder(conceptContent, systemContent string) (*TextPromptBuilder, error) {
	if strings.TrimSpace(conceptContent) == "" {
		return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", conceptTemplateName)
	}
	system := strings.TrimSpace(systemContent)
	if system == "" {
		return nil, fmt.Errorf("システムインストラクション (go:embed) の読み込みに失敗しました: 内容が空です")
	}

	tmpl, err := template.New(conceptTemplateName).Option("missingkey=error").Parse(conceptContent)
	if err != nil {
		return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", conceptTemplateName, err)
	}

	return &TextPromptBuilder{
		template:          tmpl,
		systemInstruction: system,
	}, nil
}

// Build は枚数、年齢、スタイル、追加メモをすべての出現箇所に埋め込みます。
func (b *TextPromptBuilder) Build(data TemplateData) (string, error) {
	var sb strings.Builder
	if err := b.template.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return sb.String(), nil
}

// SystemInstruction は構成案生成に毎回添える固定ルールを返します。
func (b *TextPromptBuilder) SystemInstruction() string {
	return b.systemInstruction
}
