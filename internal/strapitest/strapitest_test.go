package strapitest

import (
	"context"
	"net/url"
	"testing"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/stretchr/testify/require"
)

// Тесты фейка: авторизация, фильтры/сортировка/пагинация ленты, вложенные комментарии.

func TestServer_ArticlesQuery(t *testing.T) {
	t.Parallel()

	s := New()
	t.Cleanup(s.Close)

	s.AddUser("alice", "alice@mail.io", "secret123", "abc")
	s.AddCategory("Beach")
	s.AddArticle("Sunny beach", "sand", "Beach")
	s.AddArticle("Alps", "snow", "")
	s.AddArticle("Beach bar", "drinks", "Beach")

	c, err := apiclient.New(s.URL())
	require.NoError(t, err)
	ctx := context.Background()

	var forbidden models.ArticleList
	require.Error(t, c.Get(ctx, "/articles", nil, "", &forbidden))

	p := url.Values{}
	p.Set("filters[category][name][$eqi]", "beach")
	p.Set("sort[0]", "title:asc")
	p.Set("pagination[page]", "1")
	p.Set("pagination[pageSize]", "1")

	var got models.ArticleList
	require.NoError(t, c.Get(ctx, "/articles", p, "abc", &got))
	require.Len(t, got.Data, 1)
	require.Equal(t, "Beach bar", got.Data[0].Title)
	require.Equal(t, models.Pagination{Page: 1, PageSize: 1, PageCount: 2, Total: 2}, got.Meta.Pagination)
	require.True(t, got.Meta.Pagination.HasMore())

	p = url.Values{}
	p.Set("filters[title][$eqi]", "alps")
	var exact models.ArticleList
	require.NoError(t, c.Get(ctx, "/articles", p, "abc", &exact))
	require.Len(t, exact.Data, 1)
	require.Equal(t, "Alps", exact.Data[0].Title)
	require.Nil(t, exact.Data[0].Category)
}

func TestServer_PublishedAtSort(t *testing.T) {
	t.Parallel()

	s := New()
	t.Cleanup(s.Close)

	s.AddUser("alice", "alice@mail.io", "secret123", "abc")
	s.AddArticle("First", "", "")
	s.AddArticle("Second", "", "")

	c, err := apiclient.New(s.URL())
	require.NoError(t, err)

	p := url.Values{}
	p.Set("sort[0]", "publishedAt:desc")

	var got models.ArticleList
	require.NoError(t, c.Get(context.Background(), "/articles", p, "abc", &got))
	require.Equal(t, "Second", got.Data[0].Title)
	require.Equal(t, "First", got.Data[1].Title)
	require.Positive(t, s.Requests())
}
