package generator

import (
	"context"
	"sync"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// generateCall は GenerateContent に渡された引数の記録です。
type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// mockContentClient は ContentGenerator のテスト用モックなのだ。
type mockContentClient struct {
	mu    sync.Mutex
	calls []generateCall
	resp  *genai.GenerateContentResponse
	err   error
}

func (m *mockContentClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, generateCall{model: model, contents: contents, config: config})
	return m.resp, m.err
}

// partsCall は GenerateWithParts に渡された引数の記録です。
type partsCall struct {
	model string
	parts []*genai.Part
	opts  gemini.GenerateOptions
}

// mockPartsClient は PartsGenerator のテスト用モックなのだ。
// nilResponse を立てるとエラーなしで nil の Response を返すのだ。
type mockPartsClient struct {
	mu          sync.Mutex
	calls       []partsCall
	resp        *genai.GenerateContentResponse
	err         error
	nilResponse bool
}

func (m *mockPartsClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, partsCall{model: model, parts: parts, opts: opts})
	if m.err != nil {
		return nil, m.err
	}
	if m.nilResponse {
		return nil, nil
	}
	return &gemini.Response{RawResponse: m.resp}, nil
}

// textResponse はテキスト1パーツだけの応答を作るのだ。
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{Text: text}},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

// partsResponse は任意のパーツを持つ応答を作るのだ。
func partsResponse(finish genai.FinishReason, parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: parts},
			FinishReason: finish,
		}},
	}
}
