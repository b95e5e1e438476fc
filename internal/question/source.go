// Package question supplies per-topic question pools and the session
// selection policies applied over them.
package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"interviewd/internal/model"
)

// ErrTopicNotFound is returned when a requested topic has no question bank.
var ErrTopicNotFound = errors.New("question: topic not found")

// Source supplies the ordered question list for a topic. Implementations are
// stateless with respect to sessions.
type Source interface {
	Questions(ctx context.Context, topic string) ([]model.Question, error)
	Topics(ctx context.Context) ([]string, error)
}

// FileSource reads question banks from one JSON document per topic:
// an array of {question, answer} objects named <topic>.json.
type FileSource struct {
	dir string
}

// NewFileSource creates a file-backed source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Questions(_ context.Context, topic string) ([]model.Question, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, topic+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, topic)
		}
		return nil, fmt.Errorf("read questions for topic %s: %w", topic, err)
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse questions for topic %s: %w", topic, err)
	}
	for i := range questions {
		questions[i].Topic = topic
	}
	return questions, nil
}

func (s *FileSource) Topics(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list question topics: %w", err)
	}

	var topics []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		topics = append(topics, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(topics)
	return topics, nil
}
