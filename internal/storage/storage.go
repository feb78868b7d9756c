package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Tiliavir/taskboard/internal/logger"
	"github.com/Tiliavir/taskboard/internal/model"
)

// ErrCorruptStore is returned when a collection file is not valid JSON.
var ErrCorruptStore = errors.New("corrupt store")

const (
	// TasksFile holds the task collection.
	TasksFile = "tasks.json"
	// PointsFile holds the point balance collection.
	PointsFile = "points.json"
)

// Store persists the task and point collections as JSON arrays in a single
// directory. Each collection has its own mutex; every read-modify-write of a
// collection runs while holding it.
type Store struct {
	dir string
	log *logger.Logger

	tasksMu  sync.Mutex
	pointsMu sync.Mutex
}

// BaseDir returns the default data directory (~/.taskboard/data).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".taskboard", "data"), nil
}

// Open prepares dir for use and migrates legacy task and point records,
// persisting a collection if anything in it changed.
func Open(dir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}
	s := &Store{dir: dir, log: log.WithComponent("storage")}

	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()

	_, data, err := s.read(TasksFile)
	if err != nil {
		return nil, err
	}
	tasks, changed, err := s.decodeTasks(data)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.write(TasksFile, tasks); err != nil {
			return nil, err
		}
		s.log.Infow("migrated legacy task records", "tasks", len(tasks))
	}

	_, data, err = s.read(PointsFile)
	if err != nil {
		return nil, err
	}
	points, changed, err := s.decodePoints(data)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.write(PointsFile, points); err != nil {
			return nil, err
		}
		s.log.Infow("migrated legacy point records", "balances", len(points))
	}
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// LoadTasks returns all tasks in storage order.
func (s *Store) LoadTasks() ([]model.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	tasks, _, err := s.loadTasks()
	return tasks, err
}

// LoadPoints returns all point balances in storage order.
func (s *Store) LoadPoints() ([]model.PointBalance, error) {
	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()
	points, _, err := s.loadPoints()
	return points, err
}

// SaveTasks replaces the task collection.
func (s *Store) SaveTasks(tasks []model.Task) error {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	return s.write(TasksFile, tasks)
}

// SavePoints replaces the point balance collection.
func (s *Store) SavePoints(points []model.PointBalance) error {
	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()
	return s.write(PointsFile, points)
}

// UpdateTasks loads the task collection, passes it to fn and saves the
// result. Nothing is written when fn returns an error.
func (s *Store) UpdateTasks(fn func([]model.Task) ([]model.Task, error)) error {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	tasks, _, err := s.loadTasks()
	if err != nil {
		return err
	}
	updated, err := fn(tasks)
	if err != nil {
		return err
	}
	return s.write(TasksFile, updated)
}

// UpdatePoints is UpdateTasks for the point balance collection.
func (s *Store) UpdatePoints(fn func([]model.PointBalance) ([]model.PointBalance, error)) error {
	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()

	points, _, err := s.loadPoints()
	if err != nil {
		return err
	}
	updated, err := fn(points)
	if err != nil {
		return err
	}
	return s.write(PointsFile, updated)
}

// UpdateBoth runs fn over both collections while holding both locks (tasks
// first, then points) and saves both results. If the points save fails the
// task collection is restored to its previous content.
func (s *Store) UpdateBoth(fn func([]model.Task, []model.PointBalance) ([]model.Task, []model.PointBalance, error)) error {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()

	tasks, prevTasks, err := s.loadTasks()
	if err != nil {
		return err
	}
	points, _, err := s.loadPoints()
	if err != nil {
		return err
	}

	newTasks, newPoints, err := fn(tasks, points)
	if err != nil {
		return err
	}
	if err := s.write(TasksFile, newTasks); err != nil {
		return err
	}
	if err := s.write(PointsFile, newPoints); err != nil {
		if rerr := s.restore(TasksFile, prevTasks); rerr != nil {
			s.log.Errorw("restoring tasks after failed points save", "error", rerr)
		}
		return err
	}
	return nil
}

func (s *Store) loadTasks() ([]model.Task, []byte, error) {
	_, data, err := s.read(TasksFile)
	if err != nil {
		return nil, nil, err
	}
	tasks, _, err := s.decodeTasks(data)
	if err != nil {
		return nil, nil, err
	}
	return tasks, data, nil
}

func (s *Store) loadPoints() ([]model.PointBalance, []byte, error) {
	_, data, err := s.read(PointsFile)
	if err != nil {
		return nil, nil, err
	}
	points, _, err := s.decodePoints(data)
	if err != nil {
		return nil, nil, err
	}
	return points, data, nil
}

// decodeTasks parses the raw task collection, applying Migrate on the way.
func (s *Store) decodeTasks(data []byte) ([]model.Task, bool, error) {
	tasks := []model.Task{}
	changed, err := s.decode(TasksFile, data, Migrate, &tasks)
	if err != nil {
		return nil, false, err
	}
	return tasks, changed, nil
}

// decodePoints parses the raw point collection, applying MigratePoints.
func (s *Store) decodePoints(data []byte) ([]model.PointBalance, bool, error) {
	points := []model.PointBalance{}
	changed, err := s.decode(PointsFile, data, MigratePoints, &points)
	if err != nil {
		return nil, false, err
	}
	return points, changed, nil
}

// decode unmarshals a collection into out through its raw records so that
// migrate can upgrade them first. nil data leaves out untouched.
func (s *Store) decode(name string, data []byte, migrate func([]map[string]json.RawMessage) bool, out any) (bool, error) {
	if data == nil {
		return false, nil
	}
	path := filepath.Join(s.dir, name)

	var records []map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return false, s.corrupt(path, data, err)
	}
	for i, r := range records {
		if r == nil {
			return false, s.corrupt(path, data, fmt.Errorf("record %d is null", i))
		}
	}
	changed := migrate(records)

	migrated, err := json.Marshal(records)
	if err != nil {
		return false, fmt.Errorf("storage error re-encoding %s: %w", path, err)
	}
	if err := json.Unmarshal(migrated, out); err != nil {
		return false, s.corrupt(path, data, err)
	}
	return changed, nil
}

// read returns the file content, or nil data if the file does not exist yet.
func (s *Store) read(name string) (string, []byte, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return path, nil, nil
	}
	if err != nil {
		return path, nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return path, data, nil
}

// corrupt keeps a copy of unreadable content next to the original and
// returns an ErrCorruptStore. The original file is left untouched.
func (s *Store) corrupt(path string, data []byte, cause error) error {
	backupPath := path + ".corrupt"
	if err := os.WriteFile(backupPath, data, 0o600); err != nil {
		s.log.Warnw("could not back up corrupt file", "path", path, "error", err)
	}
	return fmt.Errorf("%w: %s (copy at %s): %v", ErrCorruptStore, path, backupPath, cause)
}

// write atomically replaces a collection file: temp file in the same
// directory, fsync, then rename over the target.
func (s *Store) write(name string, v any) error {
	path := filepath.Join(s.dir, name)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	if err := replaceFile(path, buf.Bytes()); err != nil {
		s.log.Errorw("save failed", "path", path, "error", err)
		return err
	}
	return nil
}

// restore puts back the previous content of a collection; nil data means
// the file did not exist before.
func (s *Store) restore(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	if data == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage error removing %s: %w", path, err)
		}
		return nil
	}
	return replaceFile(path, data)
}

func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage error creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
