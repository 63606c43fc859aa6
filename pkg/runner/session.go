package runner

import (
	"slices"
	"sync"

	"github.com/shouni/go-photo-session-kit/pkg/domain"

	"github.com/google/uuid"
)

// Observer はセッションの状態変化と結果のスナップショットを受け取ります。
// 通知はセッションの更新順に、1つずつ届きます。
// 通知中に Session の参照系メソッドを呼ぶのは安全ですが、Runner を呼び出してはいけません。
type Observer interface {
	OnStateChange(state domain.RunState)
	OnResults(results domain.ResultSet)
}

// ObserverFuncs は関数から Observer を組み立てるアダプターです。nil のフィールドは無視されます。
type ObserverFuncs struct {
	State   func(state domain.RunState)
	Results func(results domain.ResultSet)
}

func (f ObserverFuncs) OnStateChange(state domain.RunState) {
	if f.State != nil {
		f.State(state)
	}
}

func (f ObserverFuncs) OnResults(results domain.ResultSet) {
	if f.Results != nil {
		f.Results(results)
	}
}

// Session は1回の撮影セッションの可変状態 (実行状態、結果、構成案、編集中のスロット) を保持します。
// 生成の実行は新しい画像を末尾に追加し、編集は既存のスロットを1つだけ置き換えます。
type Session struct {
	id string

	// notifyMu は更新と通知の順序をそろえるために、更新から通知までを通して保持されます。
	notifyMu sync.Mutex
	mu       sync.Mutex

	state    domain.RunState
	results  domain.ResultSet
	concepts []domain.PhotoConcept

	editing map[int]struct{}
	// generation は新しい実行が始まるたびに増え、古いセッションへの編集結果を破棄するために使います。
	generation uint64

	observers      []subscription
	nextObserverID int
}

type subscription struct {
	id       int
	observer Observer
}

// NewSession は空のセッションを生成します。
func NewSession() *Session {
	return &Session{
		id:      uuid.NewString(),
		state:   domain.Idle{},
		results: domain.ResultSet{},
		editing: make(map[int]struct{}),
	}
}

// NewSessionFromResults は保存済みの結果からセッションを復元します。id が空なら新しく採番します。
func NewSessionFromResults(id string, concepts []domain.PhotoConcept, results domain.ResultSet) *Session {
	s := NewSession()
	if id != "" {
		s.id = id
	}
	s.concepts = slices.Clone(concepts)
	s.results = results.Clone()
	if len(s.results) > 0 {
		s.state = domain.Done{Count: len(s.results)}
	}
	return s
}

// ID はセッション識別子を返します。
func (s *Session) ID() string {
	return s.id
}

// Subscribe は Observer を登録し、登録解除用の関数を返します。
func (s *Session) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	s.nextObserverID++
	id := s.nextObserverID
	s.observers = append(s.observers, subscription{id: id, observer: o})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// State は現在の実行状態を返します。
func (s *Session) State() domain.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Results は結果のスナップショットを返します。
func (s *Session) Results() domain.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results.Clone()
}

// Concepts は直近の実行で採用された構成案を返します。
func (s *Session) Concepts() []domain.PhotoConcept {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.concepts)
}

// Image は指定スロットの画像の複製を返します。
func (s *Session) Image(index int) (domain.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.results.At(index)
	return img.Clone(), ok
}

// EditingIndices は編集中のスロット番号を昇順で返します。
func (s *Session) EditingIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	indices := make([]int, 0, len(s.editing))
	for i := range s.editing {
		indices = append(indices, i)
	}
	slices.Sort(indices)
	return indices
}

// update は mu を保持したまま fn で状態を更新し、変化した内容を Observer に通知します。
func (s *Session) update(fn func() (stateChanged, resultsChanged bool)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	stateChanged, resultsChanged := fn()
	state := s.state
	var results domain.ResultSet
	if resultsChanged {
		results = s.results.Clone()
	}
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, sub := range observers {
		if resultsChanged {
			sub.observer.OnResults(results.Clone())
		}
		if stateChanged {
			sub.observer.OnStateChange(state)
		}
	}
}

// beginRun は新しい実行を開始し、結果と構成案を空にします。
func (s *Session) beginRun() error {
	var err error
	s.update(func() (bool, bool) {
		if domain.IsGenerating(s.state) {
			err = domain.ErrRunInProgress
			return false, false
		}
		s.generation++
		s.results = domain.ResultSet{}
		s.concepts = nil
		s.editing = make(map[int]struct{})
		s.state = domain.GeneratingConcepts{}
		return true, true
	})
	return err
}

func (s *Session) setConcepts(concepts []domain.PhotoConcept) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concepts = slices.Clone(concepts)
}

func (s *Session) setState(state domain.RunState) {
	s.update(func() (bool, bool) {
		s.state = state
		return true, false
	})
}

// reportError は生成中でなければ状態を Failed にします。
func (s *Session) reportError(err error) {
	s.update(func() (bool, bool) {
		if domain.IsGenerating(s.state) {
			return false, false
		}
		s.state = domain.Failed{Err: err}
		return true, false
	})
}

// appendResult は画像を末尾に追加し、追加後のスナップショットを返します。
func (s *Session) appendResult(img domain.Image) domain.ResultSet {
	var snapshot domain.ResultSet
	s.update(func() (bool, bool) {
		s.results = append(s.results, img)
		snapshot = s.results.Clone()
		return false, true
	})
	return snapshot
}

// beginEdit は指定スロットを編集中にし、保存されている画像と世代番号を返します。
func (s *Session) beginEdit(index int) (domain.Image, uint64, error) {
	var (
		img domain.Image
		gen uint64
		err error
	)
	s.update(func() (bool, bool) {
		stored, ok := s.results.At(index)
		if !ok {
			err = &domain.EditError{Index: index, Reason: domain.ReasonNoImageAtIndex}
			return false, false
		}
		if _, busy := s.editing[index]; busy {
			err = &domain.EditError{Index: index, Reason: domain.ReasonEditInProgress, Err: domain.ErrEditInProgress}
			return false, false
		}

		s.editing[index] = struct{}{}
		img, gen = stored, s.generation

		if domain.IsGenerating(s.state) {
			return false, false
		}
		s.state = domain.Editing{Index: index}
		return true, false
	})
	return img, gen, err
}

// finishEdit は編集を終了します。editErr が nil なら該当スロットだけを img で置き換えます。
// 編集中に新しい実行が始まっていた場合は何も変更せず ErrStaleEdit を返します。
func (s *Session) finishEdit(index int, gen uint64, img domain.Image, editErr error) error {
	var err error
	s.update(func() (bool, bool) {
		if gen != s.generation {
			err = domain.ErrStaleEdit
			return false, false
		}
		delete(s.editing, index)

		resultsChanged := false
		if editErr == nil {
			s.results[index] = img
			resultsChanged = true
		}

		if domain.IsGenerating(s.state) {
			return false, resultsChanged
		}

		switch {
		case editErr != nil:
			s.state = domain.Failed{Err: editErr}
		case len(s.editing) > 0:
			s.state = domain.Editing{Index: slices.Min(keysOf(s.editing))}
		default:
			s.state = domain.Done{Count: len(s.results)}
		}
		return true, resultsChanged
	})
	return err
}

func keysOf(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
