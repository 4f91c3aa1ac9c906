package strapi

import (
	"context"
	"net/http"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/models"
)

// Login — POST /auth/local, тело form-urlencoded {identifier, password}.
func (r *Repository) Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	const op = "repository/strapi/Login"

	resp, err := apiclient.Do[models.AuthResponse](ctx, r.client, "/auth/local", apiclient.RequestOptions{
		Method:      http.MethodPost,
		Data:        creds,
		ContentType: apiclient.ContentForm,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &resp, nil
}

// Register — POST /auth/local/register, тело form-urlencoded {username, email, password}.
func (r *Repository) Register(ctx context.Context, creds models.RegisterCredentials) (*models.AuthResponse, error) {
	const op = "repository/strapi/Register"

	resp, err := apiclient.Do[models.AuthResponse](ctx, r.client, "/auth/local/register", apiclient.RequestOptions{
		Method:      http.MethodPost,
		Data:        creds,
		ContentType: apiclient.ContentForm,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	return &resp, nil
}

func (r *Repository) Me(ctx context.Context, token string) (*models.User, error) {
	const op = "repository/strapi/Me"

	var u models.User
	if err := r.client.Get(ctx, "/users/me", nil, token, &u); err != nil {
		return nil, fail(op, err)
	}

	return &u, nil
}
