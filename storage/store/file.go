package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"logsift/internal/models"
)

// record is the self-describing line format written to the daily logs.
type record struct {
	Category models.Category `json:"category"`
	*models.ClassifiedEvent
}

type openFile struct {
	date string
	file *os.File
}

// FileStore appends classified events to per-category, per-day JSONL files
// under a base directory: <base>/<category>/<YYYY-MM-DD>.<ext>. Files are
// append-only; a new day opens a new target and prior records are never
// rewritten.
type FileStore struct {
	baseDir string
	ext     string
	logger  *zap.Logger

	mu    sync.Mutex
	files map[models.Category]*openFile
	now   func() time.Time
}

// NewFileStore creates a FileStore rooted at baseDir.
func NewFileStore(baseDir, ext string, logger *zap.Logger) *FileStore {
	if ext == "" {
		ext = "jsonl"
	}
	return &FileStore{
		baseDir: baseDir,
		ext:     ext,
		logger:  logger,
		files:   make(map[models.Category]*openFile),
		now:     time.Now,
	}
}

// Persist categorizes the event and appends it as one JSON line to the
// category's daily file.
func (s *FileStore) Persist(ev *models.ClassifiedEvent) error {
	category := Categorize(ev)

	data, err := json.Marshal(record{Category: category, ClassifiedEvent: ev})
	if err != nil {
		return fmt.Errorf("store: marshal event %s: %w", ev.ID, err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.target(category)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("store: append to %s: %w", category, err)
	}
	return nil
}

// target returns the open append handle for the category's current day,
// opening a new file (and closing the previous day's) as needed.
// Caller must hold s.mu.
func (s *FileStore) target(category models.Category) (*os.File, error) {
	date := s.now().UTC().Format("2006-01-02")
	if of, ok := s.files[category]; ok && of.date == date {
		return of.file, nil
	}

	if of, ok := s.files[category]; ok {
		if err := of.file.Close(); err != nil {
			s.logger.Warn("failed to close rolled log file",
				zap.String("category", string(category)), zap.Error(err))
		}
		delete(s.files, category)
	}

	dir := filepath.Join(s.baseDir, string(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create category dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, date+"."+s.ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s.files[category] = &openFile{date: date, file: f}
	return f, nil
}

// Close closes all open daily files.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for category, of := range s.files {
		if err := of.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("store: close %s: %w", category, err)
		}
		delete(s.files, category)
	}
	return firstErr
}

var _ Store = (*FileStore)(nil)
