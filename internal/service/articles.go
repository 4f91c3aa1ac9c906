package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// Articles — страница статей. Ошибка API превращается в пустую страницу.
func (s *Service) Articles(ctx context.Context, q models.ArticleQuery) (*models.ArticleList, error) {
	const op = "service/articles/Articles"

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	list, err := s.repos.Articles.ListArticles(ctx, tok, q)
	if err != nil || list == nil {
		if err != nil {
			log.From(ctx).Error("get_articles_failed", slog.String("op", op), slog.String("err", err.Error()))
		}

		return models.EmptyList[models.Article](q.PageSize), nil
	}

	return list, nil
}

// ArticleByTitle — статья с комментариями по заголовку. Ошибки не глушатся.
func (s *Service) ArticleByTitle(ctx context.Context, title string) (*models.ArticleList, error) {
	const op = "service/articles/ArticleByTitle"

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	list, err := s.repos.Articles.ArticleByTitle(ctx, tok, title)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

func (s *Service) CreateArticle(ctx context.Context, in models.ArticleInput) (*models.Article, error) {
	const op = "service/articles/CreateArticle"

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	a, err := s.repos.Articles.CreateArticle(ctx, tok, in)
	if err != nil {
		return nil, writeFailed(ctx, op, "create_article_failed", err)
	}

	return a, nil
}

// UpdateArticle — частичное обновление по documentId.
func (s *Service) UpdateArticle(ctx context.Context, documentID string, in models.ArticleInput) (*models.Article, error) {
	const op = "service/articles/UpdateArticle"

	if err := requireDocumentID(op, documentID); err != nil {
		return nil, err
	}

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	a, err := s.repos.Articles.UpdateArticle(ctx, tok, documentID, in)
	if err != nil {
		return nil, writeFailed(ctx, op, "update_article_failed", err)
	}

	return a, nil
}

func (s *Service) DeleteArticle(ctx context.Context, documentID string) error {
	const op = "service/articles/DeleteArticle"

	if err := requireDocumentID(op, documentID); err != nil {
		return err
	}

	tok, err := s.token(ctx, op)
	if err != nil {
		return err
	}

	if err := s.repos.Articles.DeleteArticle(ctx, tok, documentID); err != nil {
		return writeFailed(ctx, op, "delete_article_failed", err)
	}

	return nil
}
