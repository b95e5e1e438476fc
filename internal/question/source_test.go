package question

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"interviewd/internal/model"
)

func writeTopicFile(t *testing.T, dir, topic, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, topic+".json"), []byte(content), 0o644))
}

func TestFileSourceQuestions(t *testing.T) {
	dir := t.TempDir()
	writeTopicFile(t, dir, "go", `[
		{"question": "what is a goroutine?", "answer": "a lightweight task"},
		{"question": "what does defer do?", "answer": "schedules a call on return"}
	]`)

	src := NewFileSource(dir)
	got, err := src.Questions(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "what is a goroutine?", got[0].Text)
	require.Equal(t, "a lightweight task", got[0].ReferenceAnswer)
	require.Equal(t, "go", got[0].Topic)
}

func TestFileSourceTopicNotFound(t *testing.T) {
	src := NewFileSource(t.TempDir())
	_, err := src.Questions(context.Background(), "missing")
	require.ErrorIs(t, err, ErrTopicNotFound)
}

func TestFileSourceMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeTopicFile(t, dir, "broken", `{not json`)

	src := NewFileSource(dir)
	_, err := src.Questions(context.Background(), "broken")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrTopicNotFound))
}

func TestFileSourceTopics(t *testing.T) {
	dir := t.TempDir()
	writeTopicFile(t, dir, "js", `[]`)
	writeTopicFile(t, dir, "go", `[]`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.json"), 0o755))

	src := NewFileSource(dir)
	topics, err := src.Topics(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"go", "js"}, topics)
}

type memPool struct {
	data map[string][]model.Question
	err  error
}

func (p *memPool) Get(_ context.Context, topic string) ([]model.Question, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.data[topic], nil
}

func (p *memPool) Set(_ context.Context, topic string, questions []model.Question) error {
	if p.err != nil {
		return p.err
	}
	if p.data == nil {
		p.data = map[string][]model.Question{}
	}
	p.data[topic] = questions
	return nil
}

type countingSource struct {
	Source
	calls int
}

func (c *countingSource) Questions(ctx context.Context, topic string) ([]model.Question, error) {
	c.calls++
	return c.Source.Questions(ctx, topic)
}

func TestCachedSourcePopulatesAndHits(t *testing.T) {
	underlying := &countingSource{Source: &stubSource{pools: map[string][]model.Question{
		"go": pool("go", 3),
	}}}
	cached := NewCachedSource(underlying, &memPool{})

	first, err := cached.Questions(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.Equal(t, 1, underlying.calls)

	second, err := cached.Questions(context.Background(), "go")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, underlying.calls, "second read should hit the cache")
}

func TestCachedSourceFallsThroughOnCacheError(t *testing.T) {
	underlying := &countingSource{Source: &stubSource{pools: map[string][]model.Question{
		"go": pool("go", 2),
	}}}
	cached := NewCachedSource(underlying, &memPool{err: errors.New("redis down")})

	got, err := cached.Questions(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1, underlying.calls)
}
