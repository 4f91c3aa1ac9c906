package strapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/models"
)

type commentCreate struct {
	Content string    `json:"content"`
	Article models.ID `json:"article"`
}

type commentUpdate struct {
	Content string `json:"content"`
}

func (r *Repository) ListComments(ctx context.Context, token string, articleID models.ID) (*models.CommentList, error) {
	const op = "repository/strapi/ListComments"

	p := url.Values{}
	p.Set("filters[article][id][$eq]", articleID.String())
	p.Set("sort", "createdAt:desc")
	p.Set("pagination[pageSize]", strconv.Itoa(r.limits.CommentsPageSize))

	resp, err := apiclient.Do[models.CommentList](ctx, r.client, "/comments", apiclient.RequestOptions{
		Method: http.MethodGet,
		Params: p,
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	if resp.Data == nil {
		resp.Data = []models.Comment{}
	}

	return &resp, nil
}

func (r *Repository) CreateComment(ctx context.Context, token, content string, articleID models.ID) (*models.Comment, error) {
	const op = "repository/strapi/CreateComment"

	resp, err := apiclient.Do[models.ItemResponse[models.Comment]](ctx, r.client, "/comments", apiclient.RequestOptions{
		Method: http.MethodPost,
		Data:   dataBody[commentCreate]{Data: commentCreate{Content: content, Article: articleID}},
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &resp.Data, nil
}

func (r *Repository) UpdateComment(ctx context.Context, token, documentID, content string) (*models.Comment, error) {
	const op = "repository/strapi/UpdateComment"

	if err := requireDocumentID(op, documentID); err != nil {
		return nil, err
	}

	resp, err := apiclient.Do[models.ItemResponse[models.Comment]](ctx, r.client, "/comments/"+url.PathEscape(documentID), apiclient.RequestOptions{
		Method: http.MethodPut,
		Data:   dataBody[commentUpdate]{Data: commentUpdate{Content: content}},
		Token:  token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &resp.Data, nil
}

func (r *Repository) DeleteComment(ctx context.Context, token, documentID string) error {
	const op = "repository/strapi/DeleteComment"

	if err := requireDocumentID(op, documentID); err != nil {
		return err
	}

	if err := r.client.Delete(ctx, "/comments/"+url.PathEscape(documentID), token, nil); err != nil {
		return fail(op, err)
	}

	return nil
}
