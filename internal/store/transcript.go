package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kaiwahq/kaiwa/internal/conversation"
	kaiwaErrors "github.com/kaiwahq/kaiwa/internal/errors"

	"github.com/natefinch/atomic"
	"github.com/oklog/ulid/v2"
)

// Transcript is a stored conversation plus bookkeeping metadata.
type Transcript struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
	Messages  conversation.Conversation `json:"messages"`
}

// Store persists transcripts as JSON files under a workspace directory. The
// directory is guarded by a file lock so concurrent kaiwa processes cannot
// interleave writes.
type Store struct {
	basePath string
	lock     *FileLock
}

func Open(basePath string, lockCfg *FileLockConfig) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace directory: %w", err)
	}

	lock, err := NewFileLock(basePath, lockCfg)
	if err != nil {
		return nil, kaiwaErrors.WrapWithCategory(err, "acquire workspace lock", kaiwaErrors.ErrConflict)
	}

	return &Store{basePath: basePath, lock: lock}, nil
}

func (s *Store) Close() {
	s.lock.Unlock()
}

// NewID mints a transcript id; ULIDs sort by creation time.
func (s *Store) NewID() string {
	return ulid.Make().String()
}

func (s *Store) path(id string) string {
	return filepath.Join(s.basePath, id+".json")
}

// Save writes the transcript atomically; a crashed process never leaves a
// half-written file behind.
func (s *Store) Save(t *Transcript) error {
	if t.ID == "" {
		return kaiwaErrors.InvalidInput("transcript id is empty")
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript %s: %w", t.ID, err)
	}

	if err := atomic.WriteFile(s.path(t.ID), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write transcript %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) Load(id string) (*Transcript, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kaiwaErrors.NotFound(fmt.Sprintf("transcript %s", id))
		}
		return nil, fmt.Errorf("read transcript %s: %w", id, err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", id, err)
	}
	return &t, nil
}

// List returns stored transcript ids in lexical (creation) order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("read workspace directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
