package strapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/models"
)

func (r *Repository) ListCategories(ctx context.Context, token string) (*models.CategoryList, error) {
	const op = "repository/strapi/ListCategories"

	p := url.Values{}
	p.Set("pagination[pageSize]", strconv.Itoa(r.limits.CategoriesPageSize))

	resp, err := apiclient.Do[models.CategoryList](ctx, r.client, "/categories", apiclient.RequestOptions{
		Method: http.MethodGet,
		Params: p,
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	if resp.Data == nil {
		resp.Data = []models.Category{}
	}

	return &resp, nil
}

func (r *Repository) CreateCategory(ctx context.Context, token string, in models.CategoryInput) (*models.Category, error) {
	const op = "repository/strapi/CreateCategory"

	resp, err := apiclient.Do[models.ItemResponse[models.Category]](ctx, r.client, "/categories", apiclient.RequestOptions{
		Method: http.MethodPost,
		Data:   dataBody[models.CategoryInput]{Data: in},
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &resp.Data, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, token, documentID string, in models.CategoryInput) (*models.Category, error) {
	const op = "repository/strapi/UpdateCategory"

	if err := requireDocumentID(op, documentID); err != nil {
		return nil, err
	}

	resp, err := apiclient.Do[models.ItemResponse[models.Category]](ctx, r.client, "/categories/"+url.PathEscape(documentID), apiclient.RequestOptions{
		Method: http.MethodPut,
		Data:   dataBody[models.CategoryInput]{Data: in},
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &resp.Data, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, token, documentID string) error {
	const op = "repository/strapi/DeleteCategory"

	if err := requireDocumentID(op, documentID); err != nil {
		return err
	}

	if err := r.client.Delete(ctx, "/categories/"+url.PathEscape(documentID), token, nil); err != nil {
		return fail(op, err)
	}

	return nil
}
