// Package file — «local storage» сессии в JSON-файле.
// Каждая операция перечитывает файл, запись атомарная (temp + rename),
// поэтому новый экземпляр клиента видит сессию предыдущего.
// Нечитаемый файл считается пустой сессией и перезаписывается следующей записью.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pribylovaa/travel-blog/pkg/log"
)

type Store struct {
	mu   sync.Mutex
	path string
}

// New — каталог файла создаётся при необходимости.
func New(path string) (*Store, error) {
	const op = "session/file/New"

	if path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{path: path}, nil
}

func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, err := s.load(ctx)
	if err != nil {
		return "", false, err
	}

	v, ok := m[key]
	return v, ok, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, err := s.load(ctx)
	if err != nil {
		return err
	}

	m[key] = value
	return s.save(m)
}

// RemoveItem — битый файл перезаписывается даже при отсутствии ключа,
// иначе выход из системы оставил бы его на диске.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, corrupted, err := s.load(ctx)
	if err != nil {
		return err
	}

	if _, ok := m[key]; !ok && !corrupted {
		return nil
	}

	delete(m, key)
	return s.save(m)
}

// load читает файл. corrupted == true — содержимое не разобралось и отброшено.
// Ошибкой остаются только сбои чтения (права, I/O).
func (s *Store) load(ctx context.Context) (m map[string]string, corrupted bool, err error) {
	const op = "session/file/load"

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	m = map[string]string{}
	if len(b) == 0 {
		return m, false, nil
	}

	if err := json.Unmarshal(b, &m); err != nil {
		log.From(ctx).Warn("session_file_corrupted",
			slog.String("op", op),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)

		return map[string]string{}, true, nil
	}

	return m, false, nil
}

func (s *Store) save(m map[string]string) error {
	const op = "session/file/save"

	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
