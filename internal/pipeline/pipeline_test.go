package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/shouni/go-photo-session-kit/internal/config"
	kitconfig "github.com/shouni/go-photo-session-kit/pkg/config"
	"github.com/shouni/go-photo-session-kit/pkg/domain"
	"github.com/shouni/go-photo-session-kit/pkg/publisher"
	"github.com/shouni/go-photo-session-kit/pkg/workflow"

	"github.com/shouni/go-gemini-client/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// --- Mocks ---

const (
	testConceptModel = "concept-model"
	testImageModel   = "image-model"
	pngReference     = "data:image/png;base64,iVBORw0KGgo="
)

// fakeGemini は構成案を GenerateContent で、画像を GenerateWithParts で返すモックなのだ。
// failImageAt に 1 始まりの番号を入れると、その画像呼び出しだけ失敗するのだ。
type fakeGemini struct {
	mu          sync.Mutex
	imageCalls  int
	failImageAt int
}

func (f *fakeGemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	items := make([]string, 3)
	for i := range items {
		items[i] = conceptJSON(fmt.Sprintf("Concept %d", i+1))
	}
	return textResponse("[" + strings.Join(items, ",") + "]"), nil
}

func (f *fakeGemini) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.imageCalls++
	if f.imageCalls == f.failImageAt {
		return nil, errors.New("quota exceeded")
	}
	return &gemini.Response{RawResponse: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: fmt.Appendf(nil, "image-%d", f.imageCalls), MIMEType: "image/png"}},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
	}}, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func conceptJSON(title string) string {
	return fmt.Sprintf(`{
		"prompt_title": %q,
		"model": "Nano Banana",
		"description": "portrait",
		"outfit": {"style": "tutu", "details": "pink"},
		"pose_expression": {"pose": "twirl", "expression": "laugh"},
		"lighting": {"type": "soft", "description": "dreamy"},
		"background": {"theme": "castle", "elements": "clouds"},
		"camera": {"angle": "eye-level", "lens": "50mm", "composition": "centered"},
		"color_palette": ["pink", "gold"],
		"mood": "magical",
		"quality": "8k",
		"environment_effects": "sparkles"
	}`, title)
}

// memoryStore は Reader と Writer を兼ねるインメモリのストレージなのだ。
type memoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memoryStore) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

func (m *memoryStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: not found", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestWorkflow(t *testing.T, fake *fakeGemini, store *memoryStore) *workflow.Manager {
	t.Helper()
	cfg := kitconfig.DefaultConfig()
	cfg.GeminiModel = testConceptModel
	cfg.ImageModel = testImageModel
	cfg.PacingDelay = 0
	cfg.EditRateInterval = 0

	m, err := workflow.New(context.Background(), workflow.ManagerArgs{
		Config:        cfg,
		ContentClient: fake,
		AIClient:      fake,
		Reader:        store,
		Writer:        store,
	})
	require.NoError(t, err)
	return m
}

func generateOptions() config.GenerateOptions {
	return config.GenerateOptions{
		Photo:     pngReference,
		Age:       6,
		Style:     "fairy tale dreams",
		NumImages: 3,
		OutputDir: "out",
	}
}

// --- Tests ---

func TestGenerateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("すべての画像とマニフェストを保存するのだ", func(t *testing.T) {
		store := &memoryStore{files: map[string][]byte{}}
		wf := newTestWorkflow(t, &fakeGemini{}, store)

		result, err := GenerateSession(ctx, wf, generateOptions())
		require.NoError(t, err)
		assert.Equal(t, "out/session.json", result.ManifestPath)
		assert.Len(t, result.ImagePaths, 3)

		var manifest publisher.Manifest
		require.NoError(t, json.Unmarshal(store.files["out/session.json"], &manifest))
		assert.Equal(t, "Fairy Tale Dreams", manifest.Request.Style)
		assert.Len(t, manifest.Concepts, 3)
	})

	t.Run("途中で失敗してもそれまでの画像は保存するのだ", func(t *testing.T) {
		store := &memoryStore{files: map[string][]byte{}}
		wf := newTestWorkflow(t, &fakeGemini{failImageAt: 2}, store)

		result, err := GenerateSession(ctx, wf, generateOptions())
		require.Error(t, err)
		assert.ErrorContains(t, err, "quota exceeded")
		assert.Equal(t, []string{"out/images/portrait_1.png"}, result.ImagePaths)
		assert.Contains(t, store.files, "out/session.json")
	})

	t.Run("未知のスタイルは呼び出し前に拒否するのだ", func(t *testing.T) {
		fake := &fakeGemini{}
		wf := newTestWorkflow(t, fake, &memoryStore{files: map[string][]byte{}})
		opts := generateOptions()
		opts.Style = "Cyberpunk"

		_, err := GenerateSession(ctx, wf, opts)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "style", vErr.Field)
		assert.Zero(t, fake.imageCalls)
	})
}

func TestEditSession(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{files: map[string][]byte{}}
	wf := newTestWorkflow(t, &fakeGemini{}, store)

	_, err := GenerateSession(ctx, wf, generateOptions())
	require.NoError(t, err)

	t.Run("指定した画像だけを編集してマニフェストを更新するのだ", func(t *testing.T) {
		result, err := EditSession(ctx, wf, config.EditOptions{
			SessionFile: "out/session.json",
			Edits:       []string{"3=add a tiara"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"out/images/portrait_3_1.png"}, result.ImagePaths)
		assert.Equal(t, []byte("image-4"), store.files["out/images/portrait_3_1.png"])

		var manifest publisher.Manifest
		require.NoError(t, json.Unmarshal(store.files["out/session.json"], &manifest))
		assert.Equal(t, []string{"add a tiara"}, manifest.Images[2].Edits)
		assert.Empty(t, manifest.Images[0].Edits)
	})

	t.Run("存在しない番号はEditErrorなのだ", func(t *testing.T) {
		_, err := EditSession(ctx, wf, config.EditOptions{
			SessionFile: "out/session.json",
			Edits:       []string{"9=make it blue"},
		})
		var editErr *domain.EditError
		require.ErrorAs(t, err, &editErr)
		assert.Equal(t, 8, editErr.Index)
	})

	t.Run("書式が正しくない指定は拒否するのだ", func(t *testing.T) {
		_, err := EditSession(ctx, wf, config.EditOptions{
			SessionFile: "out/session.json",
			Edits:       []string{"make it blue"},
		})
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("編集指定がなければエラーなのだ", func(t *testing.T) {
		_, err := EditSession(ctx, wf, config.EditOptions{SessionFile: "out/session.json"})
		assert.Error(t, err)
	})
}
