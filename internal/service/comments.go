package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// CommentsByArticle — комментарии статьи. Ошибка API превращается в пустой список.
func (s *Service) CommentsByArticle(ctx context.Context, articleID models.ID) (*models.CommentList, error) {
	const op = "service/comments/CommentsByArticle"

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	list, err := s.repos.Comments.ListComments(ctx, tok, articleID)
	if err != nil {
		log.From(ctx).Error("get_comments_failed",
			slog.String("op", op),
			slog.Int64("article_id", int64(articleID)),
			slog.String("err", err.Error()),
		)

		return models.EmptyList[models.Comment](commentsPageSize), nil
	}

	return list, nil
}

// CreateComment — content нормализуется (TrimSpace) и не должен быть пустым.
func (s *Service) CreateComment(ctx context.Context, content string, articleID models.ID) (*models.Comment, error) {
	const op = "service/comments/CreateComment"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s: empty content: %w", op, ErrInvalidArgument)
	}

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	c, err := s.repos.Comments.CreateComment(ctx, tok, content, articleID)
	if err != nil {
		return nil, writeFailed(ctx, op, "create_comment_failed", err)
	}

	return c, nil
}

func (s *Service) UpdateComment(ctx context.Context, documentID, content string) (*models.Comment, error) {
	const op = "service/comments/UpdateComment"

	if err := requireDocumentID(op, documentID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s: empty content: %w", op, ErrInvalidArgument)
	}

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	c, err := s.repos.Comments.UpdateComment(ctx, tok, documentID, content)
	if err != nil {
		return nil, writeFailed(ctx, op, "update_comment_failed", err)
	}

	return c, nil
}

func (s *Service) DeleteComment(ctx context.Context, documentID string) error {
	const op = "service/comments/DeleteComment"

	if err := requireDocumentID(op, documentID); err != nil {
		return err
	}

	tok, err := s.token(ctx, op)
	if err != nil {
		return err
	}

	if err := s.repos.Comments.DeleteComment(ctx, tok, documentID); err != nil {
		return writeFailed(ctx, op, "delete_comment_failed", err)
	}

	return nil
}
