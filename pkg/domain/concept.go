package domain

import (
	"fmt"
	"strings"
)

// PhotoConcept は1枚の写真の演出内容を表す構成案です。
// フィールドの宣言順は画像生成プロンプトへ埋め込む JSON の順序になります。
type PhotoConcept struct {
	PromptTitle        string         `json:"prompt_title"`
	Model              string         `json:"model"`
	Description        string         `json:"description"`
	Outfit             Outfit         `json:"outfit"`
	PoseExpression     PoseExpression `json:"pose_expression"`
	Lighting           Lighting       `json:"lighting"`
	Background         Background     `json:"background"`
	Camera             Camera         `json:"camera"`
	ColorPalette       []string       `json:"color_palette"`
	Mood               string         `json:"mood"`
	Quality            string         `json:"quality"`
	EnvironmentEffects string         `json:"environment_effects"`
}

type Outfit struct {
	Style   string `json:"style"`
	Details string `json:"details"`
}

type PoseExpression struct {
	Pose       string `json:"pose"`
	Expression string `json:"expression"`
}

type Lighting struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type Background struct {
	Theme    string `json:"theme"`
	Elements string `json:"elements"`
}

type Camera struct {
	Angle       string `json:"angle"`
	Lens        string `json:"lens"`
	Composition string `json:"composition"`
}

// MissingFields は空の必須フィールドを JSON のパス表記で返します。
func (c PhotoConcept) MissingFields() []string {
	fields := []struct {
		path  string
		value string
	}{
		{"prompt_title", c.PromptTitle},
		{"model", c.Model},
		{"description", c.Description},
		{"outfit.style", c.Outfit.Style},
		{"outfit.details", c.Outfit.Details},
		{"pose_expression.pose", c.PoseExpression.Pose},
		{"pose_expression.expression", c.PoseExpression.Expression},
		{"lighting.type", c.Lighting.Type},
		{"lighting.description", c.Lighting.Description},
		{"background.theme", c.Background.Theme},
		{"background.elements", c.Background.Elements},
		{"camera.angle", c.Camera.Angle},
		{"camera.lens", c.Camera.Lens},
		{"camera.composition", c.Camera.Composition},
		{"mood", c.Mood},
		{"quality", c.Quality},
		{"environment_effects", c.EnvironmentEffects},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.path)
		}
	}
	if len(c.ColorPalette) == 0 {
		missing = append(missing, "color_palette")
	}
	return missing
}

// Validate は必須フィールドが1つでも欠けていればエラーを返します。
func (c PhotoConcept) Validate() error {
	if missing := c.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("concept %q is missing required fields: %s", c.PromptTitle, strings.Join(missing, ", "))
	}
	return nil
}
