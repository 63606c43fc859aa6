package prompts

import "github.com/shouni/go-photo-session-kit/pkg/domain"

// ConceptPrompt は構成案生成プロンプトを構築する契約です。
type ConceptPrompt interface {
	// Build は入力値をテンプレートに埋め込んだ指示文を返します。
	Build(data TemplateData) (string, error)
	// SystemInstruction は固定のシステムインストラクションを返します。
	SystemInstruction() string
}

// ImagePrompt は構成案から画像生成用の指示文を構築する契約です。
type ImagePrompt interface {
	BuildImageInstruction(concept domain.PhotoConcept) (string, error)
}
