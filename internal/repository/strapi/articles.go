package strapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// articleParams — query-параметры списка статей.
func articleParams(q models.ArticleQuery) url.Values {
	p := url.Values{}
	p.Set("pagination[page]", strconv.Itoa(q.Page))
	p.Set("pagination[pageSize]", strconv.Itoa(q.PageSize))
	p.Set("populate", "*")

	if s := strings.TrimSpace(q.Filters.SearchTerm); s != "" {
		p.Set("filters[title][$containsi]", s)
	}

	if c := strings.TrimSpace(q.Filters.CategoryName); c != "" {
		p.Set("filters[category][name][$eqi]", c)
	}

	if sort, ok := q.Filters.SortBy.SortParam(); ok {
		p.Set("sort[0]", sort)
	}

	return p
}

func (r *Repository) ListArticles(ctx context.Context, token string, q models.ArticleQuery) (*models.ArticleList, error) {
	const op = "repository/strapi/ListArticles"

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = r.limits.ArticlesPageSize
	}

	resp, err := apiclient.Do[models.ArticleList](ctx, r.client, "/articles", apiclient.RequestOptions{
		Method: http.MethodGet,
		Params: articleParams(q),
		Token:  token,
	})
	if err != nil {
		log.From(ctx).Error("list_articles_failed",
			slog.String("op", op),
			slog.Int("page", q.Page),
			slog.String("err", err.Error()),
		)

		return models.EmptyList[models.Article](q.PageSize), nil
	}

	if resp.Data == nil {
		resp.Data = []models.Article{}
	}

	return &resp, nil
}

func (r *Repository) ArticleByTitle(ctx context.Context, token, title string) (*models.ArticleList, error) {
	const op = "repository/strapi/ArticleByTitle"

	p := url.Values{}
	p.Set("populate", "*")
	p.Set("filters[title][$eqi]", title)

	resp, err := apiclient.Do[models.ArticleList](ctx, r.client, "/articles", apiclient.RequestOptions{
		Method: http.MethodGet,
		Params: p,
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	if resp.Data == nil {
		resp.Data = []models.Article{}
	}

	return &resp, nil
}

func (r *Repository) CreateArticle(ctx context.Context, token string, in models.ArticleInput) (*models.Article, error) {
	const op = "repository/strapi/CreateArticle"

	resp, err := apiclient.Do[models.ItemResponse[models.Article]](ctx, r.client, "/articles", apiclient.RequestOptions{
		Method: http.MethodPost,
		Data:   dataBody[models.ArticleInput]{Data: in},
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &resp.Data, nil
}

func (r *Repository) UpdateArticle(ctx context.Context, token, documentID string, in models.ArticleInput) (*models.Article, error) {
	const op = "repository/strapi/UpdateArticle"

	if err := requireDocumentID(op, documentID); err != nil {
		return nil, err
	}

	resp, err := apiclient.Do[models.ItemResponse[models.Article]](ctx, r.client, "/articles/"+url.PathEscape(documentID), apiclient.RequestOptions{
		Method: http.MethodPut,
		Data:   dataBody[models.ArticleInput]{Data: in},
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &resp.Data, nil
}

func (r *Repository) DeleteArticle(ctx context.Context, token, documentID string) error {
	const op = "repository/strapi/DeleteArticle"

	if err := requireDocumentID(op, documentID); err != nil {
		return err
	}

	if err := r.client.Delete(ctx, "/articles/"+url.PathEscape(documentID), token, nil); err != nil {
		return fail(op, err)
	}

	return nil
}
