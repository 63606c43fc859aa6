package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Style は撮影セッションのテーマ名です。
type Style string

const (
	StyleSoftBabyStudio   Style = "Soft Baby Studio"
	StyleOutdoorAdventure Style = "Outdoor Adventure"
	StyleFantasyCartoon   Style = "Fantasy Cartoon"
	StyleEgyptianClassic  Style = "Egyptian Classic"
	StyleBirthdayTheme    Style = "Birthday Theme"
	StyleVintagePortrait  Style = "Vintage Portrait"
	StyleSuperheroFantasy Style = "Superhero Fantasy"
	StyleFairyTaleDreams  Style = "Fairy Tale Dreams"
	StyleSpaceExplorer    Style = "Space Explorer"
	StyleMagicalForest    Style = "Magical Forest"
)

// DefaultStyle はフォームの初期値と同じく先頭のスタイルです。
const DefaultStyle = StyleSoftBabyStudio

// photoStyles は選択肢として提示する順序を保持します。
var photoStyles = []Style{
	StyleSoftBabyStudio,
	StyleOutdoorAdventure,
	StyleFantasyCartoon,
	StyleEgyptianClassic,
	StyleBirthdayTheme,
	StyleVintagePortrait,
	StyleSuperheroFantasy,
	StyleFairyTaleDreams,
	StyleSpaceExplorer,
	StyleMagicalForest,
}

// Styles は定義済みスタイルのコピーを表示順で返します。
func Styles() []Style {
	return slices.Clone(photoStyles)
}

// IsValid は定義済みのスタイルかどうかを判定します。
func (s Style) IsValid() bool {
	return slices.Contains(photoStyles, s)
}

func (s Style) String() string {
	return string(s)
}

// ParseStyle は大文字小文字と前後の空白を無視してスタイル名を解決します。
func ParseStyle(name string) (Style, error) {
	trimmed := strings.TrimSpace(name)
	for _, s := range photoStyles {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}

	names := make([]string, 0, len(photoStyles))
	for _, s := range photoStyles {
		names = append(names, string(s))
	}
	return "", &ValidationError{
		Field:   "style",
		Message: fmt.Sprintf("unknown style %q (available: %s)", name, strings.Join(names, ", ")),
	}
}
