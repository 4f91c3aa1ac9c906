// Package store — контейнеры состояния клиента (статьи, комментарии, категории, сессия).
//
// Каждый стор держит снимок состояния под мьютексом; сетевые вызовы выполняются
// вне блокировки. Подписчики получают копию состояния после изменения;
// устаревший снимок, обогнанный более новым, не доставляется.
// Сторы создаются один раз на корень приложения (см. internal/app).
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/pribylovaa/travel-blog/internal/apperrors"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

var (
	// ErrSuperseded — ответ устарел: после запуска операции стартовала более новая
	// выборка или стор был сброшен. Состояние не изменено.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrNoArticleTitle — для статьи не известен заголовок, по которому грузятся комментарии.
	ErrNoArticleTitle = errors.New("no article title available")
)

// Notification — всплывающее уведомление для пользователя.
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier доставляет уведомления слою представления.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc — адаптер функции к Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier пишет уведомления в лог из контекста.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	level := slog.LevelInfo
	if n.Destructive {
		level = slog.LevelWarn
	}

	log.From(ctx).Log(ctx, level, "notification",
		slog.String("title", n.Title),
		slog.String("description", n.Description),
	)
}

// userMessage — сообщение категоризированной ошибки, иначе fallback.
// Технические тексты (op-префиксы, sentinel-ошибки) пользователю не показываются.
func userMessage(err error, fallback string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	return fallback
}

type cloner[S any] interface {
	clone() S
}

// container — состояние стора и его подписчики.
//
// Каждое изменение получает номер seq. Доставка идёт под notifyMu, и снимок
// старше уже доставленного отбрасывается: последним подписчик видит последнее
// состояние. Колбэк может читать State, но не должен синхронно менять тот же стор.
type container[S cloner[S]] struct {
	mu   sync.Mutex
	st   S
	subs map[uint64]func(S)
	next uint64
	seq  uint64

	notifyMu  sync.Mutex
	delivered uint64
}

func newContainer[S cloner[S]](initial S) *container[S] {
	return &container[S]{st: initial, subs: make(map[uint64]func(S))}
}

func (c *container[S]) snapshot() S {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.st.clone()
}

// apply выполняет fn под блокировкой. Если fn вернула false, подписчики не уведомляются.
func (c *container[S]) apply(fn func(st *S) bool) bool {
	c.mu.Lock()
	if !fn(&c.st) {
		c.mu.Unlock()
		return false
	}

	c.seq++
	seq := c.seq
	snap := c.st
	subs := make([]func(S), 0, len(c.subs))
	for _, f := range c.subs {
		subs = append(subs, f)
	}
	snaps := make([]S, len(subs))
	for i := range subs {
		snaps[i] = snap.clone()
	}

	c.mu.Unlock()

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if seq < c.delivered {
		return true
	}
	c.delivered = seq

	for i, f := range subs {
		f(snaps[i])
	}

	return true
}

func (c *container[S]) update(fn func(st *S)) {
	c.apply(func(st *S) bool {
		fn(st)
		return true
	})
}

// subscribe регистрирует fn; возвращённая функция отменяет подписку.
func (c *container[S]) subscribe(fn func(S)) func() {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}
