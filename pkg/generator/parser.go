package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shouni/go-photo-session-kit/pkg/domain"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

const responseExcerptLength = 200

// parseConcepts は AI の応答テキストから構成案の配列を取り出し、各要素の必須フィールドを検証します。
func parseConcepts(raw string) ([]domain.PhotoConcept, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &domain.ConceptGenerationError{
			Reason: domain.ReasonInvalidFormat,
			Err:    fmt.Errorf("応答が空でした"),
		}
	}

	var rawJSON string
	matches := jsonBlockRegex.FindStringSubmatch(raw)
	if len(matches) > 1 {
		rawJSON = matches[1]
	} else {
		// Fallback 1: Find the outermost JSON array.
		firstBracket := strings.Index(raw, "[")
		lastBracket := strings.LastIndex(raw, "]")
		if firstBracket != -1 && lastBracket != -1 && lastBracket > firstBracket {
			rawJSON = raw[firstBracket : lastBracket+1]
		} else {
			// Fallback 2: Assume the entire response is JSON.
			rawJSON = raw
		}
	}

	var concepts []domain.PhotoConcept
	if err := json.Unmarshal([]byte(rawJSON), &concepts); err != nil {
		return nil, &domain.ConceptGenerationError{
			Reason: domain.ReasonInvalidFormat,
			Err:    fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, responseExcerptLength), err),
		}
	}

	for i, c := range concepts {
		if err := c.Validate(); err != nil {
			return nil, &domain.ConceptGenerationError{
				Reason: domain.ReasonInvalidFormat,
				Err:    fmt.Errorf("構成案 %d: %w", i+1, err),
			}
		}
	}

	if len(concepts) == 0 {
		return nil, &domain.ConceptGenerationError{Reason: domain.ReasonEmptyResult}
	}
	return concepts, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
