// Package memory — хранилища сессии в памяти процесса на go-cache.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CookieJar — «cookie» с TTL; просроченные записи вычищаются фоном.
type CookieJar struct {
	c *cache.Cache
}

func NewCookieJar() *CookieJar {
	return &CookieJar{c: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (j *CookieJar) Get(_ context.Context, name string) (string, bool, error) {
	v, ok := j.c.Get(name)
	if !ok {
		return "", false, nil
	}

	s, ok := v.(string)
	return s, ok, nil
}

// Set — ttl <= 0 сохраняет запись без срока жизни.
func (j *CookieJar) Set(_ context.Context, name, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	j.c.Set(name, value, ttl)
	return nil
}

func (j *CookieJar) Delete(_ context.Context, name string) error {
	j.c.Delete(name)
	return nil
}

// LocalStorage — «local storage» без срока жизни; живёт до конца процесса.
type LocalStorage struct {
	c *cache.Cache
}

func NewLocalStorage() *LocalStorage {
	return &LocalStorage{c: cache.New(cache.NoExpiration, 0)}
}

func (s *LocalStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return "", false, nil
	}

	str, ok := v.(string)
	return str, ok, nil
}

func (s *LocalStorage) SetItem(_ context.Context, key, value string) error {
	s.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *LocalStorage) RemoveItem(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
