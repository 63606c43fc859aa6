package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/shouni/go-photo-session-kit/pkg/domain"

	imagedom "github.com/shouni/gemini-image-kit/ports"
)

// --- Mocks ---

// eventLog は画像生成と待機の発生順を記録するのだ。
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type mockConceptGenerator struct {
	mu        sync.Mutex
	calls     int
	prompt    string
	system    string
	reference *domain.Image
	concepts  []domain.PhotoConcept
	err       error
}

func (m *mockConceptGenerator) GenerateConcepts(ctx context.Context, prompt, systemInstruction string, reference *domain.Image) ([]domain.PhotoConcept, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompt = prompt
	m.system = systemInstruction
	m.reference = reference
	return m.concepts, m.err
}

type imageCall struct {
	reference   domain.Image
	instruction string
}

// mockImageGenerator は呼び出しごとに "generated-N" という画像を返すのだ。
// failAt に一致する呼び出し (0 始まり) か、failOn と同じ指示文では err を返すのだ。
type mockImageGenerator struct {
	mu      sync.Mutex
	calls   []imageCall
	failAt  int
	failOn  string
	err     error
	log     *eventLog
	started chan struct{}
	release chan struct{}
}

func newMockImageGenerator() *mockImageGenerator {
	return &mockImageGenerator{failAt: -1}
}

func (m *mockImageGenerator) GenerateImage(ctx context.Context, reference domain.Image, instruction string) (*imagedom.ImageResponse, error) {
	m.mu.Lock()
	n := len(m.calls)
	m.calls = append(m.calls, imageCall{reference: reference, instruction: instruction})
	started, release := m.started, m.release
	m.mu.Unlock()

	m.log.add("image")

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if n == m.failAt || (m.failOn != "" && instruction == m.failOn) {
		return nil, m.err
	}
	return &imagedom.ImageResponse{
		Data:     []byte(fmt.Sprintf("generated-%d", n)),
		MimeType: "image/png",
	}, nil
}

func (m *mockImageGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockPacer struct {
	mu     sync.Mutex
	pauses int
	err    error
	log    *eventLog
}

func (m *mockPacer) Pause(ctx context.Context) error {
	m.mu.Lock()
	m.pauses++
	m.mu.Unlock()
	m.log.add("pause")
	if m.err != nil {
		return m.err
	}
	return ctx.Err()
}

// recordingObserver は通知された状態を順に記録するのだ。
type recordingObserver struct {
	mu      sync.Mutex
	states  []domain.RunState
	results []domain.ResultSet
}

func (o *recordingObserver) OnStateChange(state domain.RunState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, state)
}

func (o *recordingObserver) OnResults(results domain.ResultSet) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, results)
}

// --- Fixtures ---

var testReference = domain.Image{Data: []byte("reference-photo"), MimeType: "image/jpeg"}

func testConcept(title string) domain.PhotoConcept {
	return domain.PhotoConcept{
		PromptTitle:        title,
		Model:              "Nano Banana",
		Description:        "A portrait",
		Outfit:             domain.Outfit{Style: "astronaut suit", Details: "soft fabric"},
		PoseExpression:     domain.PoseExpression{Pose: "waving", Expression: "smiling"},
		Lighting:           domain.Lighting{Type: "soft", Description: "warm key light"},
		Background:         domain.Background{Theme: "space", Elements: "stars"},
		Camera:             domain.Camera{Angle: "eye-level", Lens: "85mm", Composition: "centered"},
		ColorPalette:       []string{"navy", "silver"},
		Mood:               "curious",
		Quality:            "8k",
		EnvironmentEffects: "floating dust",
	}
}

func testConcepts(n int) []domain.PhotoConcept {
	concepts := make([]domain.PhotoConcept, n)
	for i := range concepts {
		concepts[i] = testConcept(fmt.Sprintf("Concept %d", i+1))
	}
	return concepts
}

func testRequest(numImages int) domain.SessionRequest {
	req := domain.NewSessionRequest(testReference)
	req.Age = 4
	req.Style = domain.StyleSpaceExplorer
	req.NumImages = numImages
	req.ExtraNotes = "loves rockets"
	return req
}

// sessionWithResults は n 枚の画像を持つセッションを作るのだ。
func sessionWithResults(n int) *Session {
	results := make(domain.ResultSet, n)
	for i := range results {
		results[i] = domain.Image{Data: []byte(fmt.Sprintf("original-%d", i)), MimeType: "image/png"}
	}
	return NewSessionFromResults("", testConcepts(n), results)
}
