package domain

import "fmt"

// RunState はオーケストレーターが現在何をしているかを表すタグ付きの状態です。
// 実装はこのパッケージ内の型に限られます。
type RunState interface {
	String() string
	isRunState()
}

// Idle はまだ何も実行していない状態です。
type Idle struct{}

// GeneratingConcepts は構成案を生成している状態です。
type GeneratingConcepts struct{}

// GeneratingImage は Total 枚中 Index 番目 (0 始まり) の画像を生成している状態です。
type GeneratingImage struct {
	Index int
	Total int
}

// Editing は Index 番目の画像を編集している状態です。
type Editing struct {
	Index int
}

// Done はすべての画像が生成された状態です。
type Done struct {
	Count int
}

// Failed は操作が失敗して停止した状態です。
type Failed struct {
	Err error
}

func (Idle) isRunState()               {}
func (GeneratingConcepts) isRunState() {}
func (GeneratingImage) isRunState()    {}
func (Editing) isRunState()            {}
func (Done) isRunState()               {}
func (Failed) isRunState()             {}

func (Idle) String() string { return "" }

func (GeneratingConcepts) String() string {
	return "Step 1/2: Generating creative photo concepts..."
}

func (s GeneratingImage) String() string {
	return fmt.Sprintf("Step 2/2: Generating image %d of %d...", s.Index+1, s.Total)
}

func (s Editing) String() string {
	return fmt.Sprintf("Editing image %d...", s.Index+1)
}

func (s Done) String() string {
	return fmt.Sprintf("Generated %d images.", s.Count)
}

func (s Failed) String() string {
	return UserMessage(s.Err)
}

// IsGenerating は生成実行中 (構成案または画像) かどうかを返します。
func IsGenerating(state RunState) bool {
	switch state.(type) {
	case GeneratingConcepts, GeneratingImage:
		return true
	default:
		return false
	}
}
