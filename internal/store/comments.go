package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/service"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// CommentService — операции над комментариями, нужные стору.
// Комментарии читаются вместе со статьёй по её заголовку.
type CommentService interface {
	ArticleByTitle(ctx context.Context, title string) (*models.ArticleList, error)
	CreateComment(ctx context.Context, content string, articleID models.ID) (*models.Comment, error)
	UpdateComment(ctx context.Context, documentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, documentID string) error
}

// CommentState — комментарии по id статьи и заголовки статей для их загрузки.
type CommentState struct {
	CommentsByArticle map[models.ID][]models.Comment
	ArticleTitles     map[models.ID]string
	Loading           bool
	Error             string
}

func (s CommentState) clone() CommentState {
	byArticle := make(map[models.ID][]models.Comment, len(s.CommentsByArticle))
	for id, cs := range s.CommentsByArticle {
		byArticle[id] = slices.Clone(cs)
	}
	s.CommentsByArticle = byArticle
	s.ArticleTitles = maps.Clone(s.ArticleTitles)

	return s
}

func initialCommentState() CommentState {
	return CommentState{
		CommentsByArticle: map[models.ID][]models.Comment{},
		ArticleTitles:     map[models.ID]string{},
	}
}

// CommentStore — кэш комментариев по статьям.
// После любой мутации список комментариев статьи перечитывается с сервера целиком.
type CommentStore struct {
	svc      CommentService
	notifier Notifier
	c        *container[CommentState]
}

func NewCommentStore(svc CommentService, notifier Notifier) *CommentStore {
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &CommentStore{svc: svc, notifier: notifier, c: newContainer(initialCommentState())}
}

func (s *CommentStore) State() CommentState { return s.c.snapshot() }

func (s *CommentStore) Subscribe(fn func(CommentState)) (unsubscribe func()) {
	return s.c.subscribe(fn)
}

// Comments — копия комментариев статьи (nil, если они не загружались).
func (s *CommentStore) Comments(articleID models.ID) []models.Comment {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	return slices.Clone(s.c.st.CommentsByArticle[articleID])
}

// SetArticleTitle запоминает заголовок статьи для последующих FetchComments.
func (s *CommentStore) SetArticleTitle(articleID models.ID, title string) {
	s.c.update(func(st *CommentState) {
		st.ArticleTitles[articleID] = title
	})
}

// FetchComments загружает комментарии статьи и заменяет только её список.
// Пустой title берётся из ArticleTitles; непустой запоминается там же.
// Без заголовка выставляется Error и возвращается ErrNoArticleTitle.
func (s *CommentStore) FetchComments(ctx context.Context, articleID models.ID, title string) error {
	const op = "store/comments/FetchComments"

	s.c.update(func(st *CommentState) {
		if title == "" {
			title = st.ArticleTitles[articleID]
		} else {
			st.ArticleTitles[articleID] = title
		}

		st.Loading = true
		st.Error = ""
		if title == "" {
			st.Loading = false
			st.Error = "No article title available to fetch comments"
		}
	})
	if title == "" {
		return fmt.Errorf("%s: article %s: %w", op, articleID, ErrNoArticleTitle)
	}

	resp, err := s.svc.ArticleByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, service.ErrNoToken) {
			s.c.update(func(st *CommentState) { st.Loading = false })
			return fmt.Errorf("%s: %w", op, err)
		}

		s.c.update(func(st *CommentState) {
			st.Loading = false
			st.Error = "Failed to load comments"
		})
		s.notifier.Notify(ctx, Notification{Title: "Error", Description: "Failed to load comments", Destructive: true})

		return fmt.Errorf("%s: %w", op, err)
	}

	s.c.update(func(st *CommentState) {
		st.Loading = false
		if resp != nil && len(resp.Data) > 0 {
			st.CommentsByArticle[articleID] = nonNil(resp.Data[0].Comments)
		}
	})

	return nil
}

// AddComment создаёт комментарий и перечитывает комментарии статьи.
func (s *CommentStore) AddComment(ctx context.Context, content string, articleID models.ID) error {
	const op = "store/comments/AddComment"

	s.begin()

	if _, err := s.svc.CreateComment(ctx, content, articleID); err != nil {
		s.fail(ctx, err, "Failed to add comment", "Failed to add comment. Please try again.")
		return fmt.Errorf("%s: %w", op, err)
	}

	s.refetch(ctx, op, articleID)
	s.done()
	s.notifier.Notify(ctx, Notification{Title: "Comment Added", Description: "Your comment has been added successfully"})

	return nil
}

// UpdateComment обновляет комментарий и перечитывает комментарии статьи-владельца.
// Владелец ищется среди загруженных списков по documentId до обращения к серверу.
func (s *CommentStore) UpdateComment(ctx context.Context, documentID, content string) error {
	const op = "store/comments/UpdateComment"

	owner, found := s.owner(documentID)
	s.begin()

	if _, err := s.svc.UpdateComment(ctx, documentID, content); err != nil {
		s.fail(ctx, err, "Failed to update comment", "You are not the owner of this comment")
		return fmt.Errorf("%s: %w", op, err)
	}

	if found {
		s.refetch(ctx, op, owner)
	}
	s.done()
	s.notifier.Notify(ctx, Notification{Title: "Comment Updated", Description: "Your comment has been updated successfully"})

	return nil
}

// DeleteComment удаляет комментарий и перечитывает комментарии статьи-владельца.
func (s *CommentStore) DeleteComment(ctx context.Context, documentID string) error {
	const op = "store/comments/DeleteComment"

	owner, found := s.owner(documentID)
	s.begin()

	if err := s.svc.DeleteComment(ctx, documentID); err != nil {
		s.fail(ctx, err, "Failed to delete comment", "You are not the owner of this comment")
		return fmt.Errorf("%s: %w", op, err)
	}

	if found {
		s.refetch(ctx, op, owner)
	}
	s.done()
	s.notifier.Notify(ctx, Notification{Title: "Comment Deleted", Description: "Your comment has been deleted successfully"})

	return nil
}

// ClearComments сбрасывает обе карты; вызывается при уходе со страницы статьи.
func (s *CommentStore) ClearComments() {
	s.c.update(func(st *CommentState) {
		*st = initialCommentState()
	})
}

// owner — id статьи, в загруженном списке которой есть комментарий documentID.
func (s *CommentStore) owner(documentID string) (models.ID, bool) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	for id, cs := range s.c.st.CommentsByArticle {
		for _, c := range cs {
			if c.DocumentID == documentID {
				return id, true
			}
		}
	}

	return 0, false
}

func (s *CommentStore) refetch(ctx context.Context, op string, articleID models.ID) {
	s.c.mu.Lock()
	title := s.c.st.ArticleTitles[articleID]
	s.c.mu.Unlock()

	if title == "" {
		return
	}

	if err := s.FetchComments(ctx, articleID, title); err != nil {
		log.From(ctx).Warn("comments_refetch_failed",
			slog.String("op", op),
			slog.Int64("article_id", int64(articleID)),
			slog.String("err", err.Error()),
		)
	}
}

func (s *CommentStore) begin() {
	s.c.update(func(st *CommentState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *CommentStore) done() {
	s.c.update(func(st *CommentState) { st.Loading = false })
}

func (s *CommentStore) fail(ctx context.Context, err error, state, fallback string) {
	s.c.update(func(st *CommentState) {
		st.Loading = false
		st.Error = state
	})

	s.notifier.Notify(ctx, Notification{Title: "Error", Description: userMessage(err, fallback), Destructive: true})
}
