package prompts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shouni/go-photo-session-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageInstructionBuilder_BuildImageInstruction(t *testing.T) {
	concept := domain.PhotoConcept{
		PromptTitle:        "Birthday Theme Session — Child Age 4",
		Model:              "Nano Banana",
		Description:        "Cake & balloons",
		Outfit:             domain.Outfit{Style: "party dress", Details: "tulle"},
		PoseExpression:     domain.PoseExpression{Pose: "sitting", Expression: "laughing"},
		Lighting:           domain.Lighting{Type: "soft", Description: "warm"},
		Background:         domain.Background{Theme: "party", Elements: "confetti"},
		Camera:             domain.Camera{Angle: "eye-level", Lens: "85mm", Composition: "centered"},
		ColorPalette:       []string{"pastels"},
		Mood:               "joyful",
		Quality:            "8k",
		EnvironmentEffects: "sparkles",
	}

	out, err := NewImageInstructionBuilder().BuildImageInstruction(concept)
	require.NoError(t, err)

	t.Run("顔立ち保持の前置きで始まるのだ", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(out, IdentityPreamble))
	})

	body := strings.TrimPrefix(out, IdentityPreamble)

	t.Run("2スペースインデントで宣言順に並ぶのだ", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(body, "{\n  \"prompt_title\": \"Birthday Theme Session — Child Age 4\",\n  \"model\": \"Nano Banana\","))
		assert.Less(t, strings.Index(body, `"camera"`), strings.Index(body, `"color_palette"`))
		assert.Contains(t, body, "\n  \"outfit\": {\n    \"style\": \"party dress\",")
		assert.False(t, strings.HasSuffix(body, "\n"))
	})

	t.Run("HTMLエスケープしないのだ", func(t *testing.T) {
		assert.Contains(t, body, "Cake & balloons")
	})

	t.Run("JSONとして構成案に戻せるのだ", func(t *testing.T) {
		var decoded domain.PhotoConcept
		require.NoError(t, json.Unmarshal([]byte(body), &decoded))
		assert.Equal(t, concept, decoded)
	})
}
