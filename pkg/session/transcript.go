package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cexll/termagent/pkg/model"
)

const transcriptTimeLayout = "20060102-150405"

// Transcript is the on-disk snapshot written when a run ends.
type Transcript struct {
	SessionID string          `json:"session_id"`
	SavedAt   time.Time       `json:"saved_at"`
	Messages  []model.Message `json:"messages"`
}

// TranscriptWriter persists conversation snapshots into a directory, one
// timestamped file per save.
type TranscriptWriter struct {
	dir       string
	sessionID string
	clock     func() time.Time
}

// NewTranscriptWriter creates a writer saving into dir.
func NewTranscriptWriter(dir string) *TranscriptWriter {
	return &TranscriptWriter{
		dir:       dir,
		sessionID: uuid.NewString(),
		clock:     time.Now,
	}
}

// SessionID returns the identifier stamped into every saved transcript.
func (w *TranscriptWriter) SessionID() string { return w.sessionID }

// Save writes the messages as a timestamped JSON file and returns its path.
// An empty history is not persisted.
func (w *TranscriptWriter) Save(messages []model.Message) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create transcript directory: %w", err)
	}

	now := w.clock()
	path := filepath.Join(w.dir, fmt.Sprintf("termagent-%s.json", now.Format(transcriptTimeLayout)))

	data, err := json.MarshalIndent(Transcript{
		SessionID: w.sessionID,
		SavedAt:   now,
		Messages:  messages,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
