package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/repository"
	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

const testContent = `{
	"chapters": [
		{
			"id": 1,
			"title": "Greetings",
			"sections": [
				{
					"id": "1-1",
					"title": "Hello",
					"audio_file": "1-1.mp3",
					"vocabulary": [
						{"en": "hello", "ja": "こんにちは"},
						{"en": "goodbye", "ja": "さようなら"},
						{"en": "thanks", "ja": "ありがとう"}
					],
					"sentences": [
						{"en": "Hello, Tanaka.", "ja": "こんにちは、田中さん。"},
						{"en": "Thank you.", "ja": "ありがとう。"}
					]
				},
				{
					"id": "1-2",
					"title": "Single word",
					"vocabulary": [{"en": "yes", "ja": "はい"}],
					"sentence_en": "Yes.",
					"sentence_ja": "はい。"
				}
			]
		}
	]
}`

var errBackendDown = errors.New("backend down")

// failingBackend fails writes while fail is set.
type failingBackend struct {
	*storage.MemoryBackend
	fail bool
}

func (b *failingBackend) Put(ctx context.Context, key string, payload []byte) error {
	if b.fail {
		return errBackendDown
	}
	return b.MemoryBackend.Put(ctx, key, payload)
}

func (b *failingBackend) PutAll(ctx context.Context, payloads map[string][]byte) error {
	if b.fail {
		return errBackendDown
	}
	return b.MemoryBackend.PutAll(ctx, payloads)
}

type fakeTask struct {
	fn        func(ctx context.Context)
	delay     time.Duration
	cancelled bool
	fired     bool
}

func (t *fakeTask) Cancel() bool {
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

// fakeScheduler records tasks and fires them on demand.
type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) Schedule(delay time.Duration, fn func(ctx context.Context)) DeferredTask {
	t := &fakeTask{fn: fn, delay: delay}
	s.tasks = append(s.tasks, t)
	return t
}

// fireAll runs every task, including cancelled ones, to simulate timers that
// raced with cancellation.
func (s *fakeScheduler) fireAll(ctx context.Context) {
	tasks := s.tasks
	s.tasks = nil
	for _, t := range tasks {
		t.fired = true
		t.fn(ctx)
	}
}

type fakeNavigator struct {
	homes int
}

func (n *fakeNavigator) GoHome(context.Context) {
	n.homes++
}

type fakeObserver struct {
	changes int
}

func (o *fakeObserver) SessionChanged(context.Context, *Session) {
	o.changes++
}

func newTestContent(t *testing.T) *repository.ContentRepository {
	t.Helper()
	content, err := repository.NewContentRepositoryFromJSON([]byte(testContent))
	require.NoError(t, err)
	return content
}

func newTestDocuments(backend storage.Backend) *storage.Documents {
	return storage.NewDocuments(backend, zap.NewNop())
}

func newTestGenerator() *OptionGenerator {
	return NewOptionGenerator(rand.New(rand.NewSource(1)))
}

type engineFixture struct {
	engine    *SessionEngine
	backend   *failingBackend
	progress  *ProgressService
	settings  *SettingsService
	scheduler *fakeScheduler
	navigator *fakeNavigator
	observer  *fakeObserver
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	ctx := context.Background()

	backend := &failingBackend{MemoryBackend: storage.NewMemoryBackend()}
	docs := newTestDocuments(backend)

	progress, err := NewProgressService(ctx, docs, zap.NewNop())
	require.NoError(t, err)
	settings, err := NewSettingsService(ctx, docs, zap.NewNop())
	require.NoError(t, err)

	f := &engineFixture{
		backend:   backend,
		progress:  progress,
		settings:  settings,
		scheduler: &fakeScheduler{},
		navigator: &fakeNavigator{},
		observer:  &fakeObserver{},
	}
	f.engine = NewSessionEngine(
		newTestContent(t),
		progress,
		settings,
		newTestGenerator(),
		f.scheduler,
		f.navigator,
		600*time.Millisecond,
		zap.NewNop(),
	)
	f.engine.SetObserver(f.observer)

	return f
}
