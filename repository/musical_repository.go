package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"StageFM/logger"
	"StageFM/model"

	"github.com/fsnotify/fsnotify"
)

// MusicalRepository defines read access to the musicals catalog.
// The catalog is file-backed and read-only; entries are cached for the
// process lifetime and only replaced wholesale on reload.
type MusicalRepository interface {
	GetMusical(id string) (*model.Musical, bool)
	GetAllMusicalIDs() []string
	GetAllMusicalBaseData() []model.MusicalBaseData
	Close() error
}

// fileMusicalRepository implements MusicalRepository on top of a directory
// of per-musical JSON files (<id>.json).
type fileMusicalRepository struct {
	dir string

	mu       sync.RWMutex
	musicals map[string]*model.Musical

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileMusicalRepository loads all musicals from dir and starts watching
// it for changes.
func NewFileMusicalRepository(dir string) (MusicalRepository, error) {
	r := &fileMusicalRepository{
		dir:  dir,
		done: make(chan struct{}),
	}
	if err := r.loadAll(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// The catalog still works without hot reload.
		logger.Warn("catalog watcher unavailable", logger.ErrorField(err))
		return r, nil
	}
	if err := watcher.Add(dir); err != nil {
		logger.Warn("catalog watcher add failed", logger.String("dir", dir), logger.ErrorField(err))
		watcher.Close()
		return r, nil
	}
	r.watcher = watcher
	go r.watch()
	return r, nil
}

func (r *fileMusicalRepository) loadAll() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("failed to read musical data dir %s: %w", r.dir, err)
	}

	musicals := make(map[string]*model.Musical)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		m, err := readMusicalFile(filepath.Join(r.dir, entry.Name()), id)
		if err != nil {
			logger.Warn("skipping invalid musical file",
				logger.String("file", entry.Name()), logger.ErrorField(err))
			continue
		}
		musicals[id] = m
	}

	r.mu.Lock()
	r.musicals = musicals
	r.mu.Unlock()

	logger.Info("musicals catalog loaded", logger.Int("count", len(musicals)), logger.String("dir", r.dir))
	return nil
}

func readMusicalFile(path, id string) (*model.Musical, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var m model.Musical
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	m.ID = id
	return &m, nil
}

func (r *fileMusicalRepository) watch() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Info("musical data changed, reloading catalog", logger.String("file", event.Name))
				if err := r.loadAll(); err != nil {
					logger.Error("catalog reload failed", logger.ErrorField(err))
				}
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("catalog watcher error", logger.ErrorField(err))
		case <-r.done:
			return
		}
	}
}

// GetMusical returns the musical with the given catalog id.
func (r *fileMusicalRepository) GetMusical(id string) (*model.Musical, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.musicals[id]
	return m, ok
}

// GetAllMusicalIDs returns all catalog ids, sorted.
func (r *fileMusicalRepository) GetAllMusicalIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.musicals))
	for id := range r.musicals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetAllMusicalBaseData returns id and title of every musical, sorted by id.
func (r *fileMusicalRepository) GetAllMusicalBaseData() []model.MusicalBaseData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	base := make([]model.MusicalBaseData, 0, len(r.musicals))
	for id, m := range r.musicals {
		base = append(base, model.MusicalBaseData{ID: id, Title: m.Title})
	}
	sort.Slice(base, func(i, j int) bool { return base[i].ID < base[j].ID })
	return base
}

// Close stops the directory watcher.
func (r *fileMusicalRepository) Close() error {
	close(r.done)
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}
