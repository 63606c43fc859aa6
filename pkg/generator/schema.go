package generator

import "google.golang.org/genai"

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

// objectSchema は列挙したプロパティをすべて必須とし、順序も固定したオブジェクトのスキーマを返します。
func objectSchema(order []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         order,
		PropertyOrdering: order,
	}
}

func stringObjectSchema(names ...string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(names))
	for _, name := range names {
		props[name] = stringSchema()
	}
	return objectSchema(names, props)
}

// ConceptSchema は PhotoConcept 1件分のレスポンススキーマです。
func ConceptSchema() *genai.Schema {
	return objectSchema(
		[]string{
			"prompt_title", "model", "description", "outfit", "pose_expression",
			"lighting", "background", "camera", "color_palette", "mood", "quality",
			"environment_effects",
		},
		map[string]*genai.Schema{
			"prompt_title":    stringSchema(),
			"model":           stringSchema(),
			"description":     stringSchema(),
			"outfit":          stringObjectSchema("style", "details"),
			"pose_expression": stringObjectSchema("pose", "expression"),
			"lighting":        stringObjectSchema("type", "description"),
			"background":      stringObjectSchema("theme", "elements"),
			"camera":          stringObjectSchema("angle", "lens", "composition"),
			"color_palette": {
				Type:  genai.TypeArray,
				Items: stringSchema(),
			},
			"mood":                stringSchema(),
			"quality":             stringSchema(),
			"environment_effects": stringSchema(),
		},
	)
}

// ConceptListSchema は構成案の配列を要求するレスポンススキーマです。
func ConceptListSchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: ConceptSchema(),
	}
}
