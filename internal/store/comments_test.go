package store

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/service"
	"github.com/pribylovaa/travel-blog/mocks"
	"github.com/stretchr/testify/require"
)

func newCommentStore(t *testing.T) (*CommentStore, *mocks.MockCommentService, *recNotifier) {
	t.Helper()

	svc := mocks.NewMockCommentService(gomock.NewController(t))
	n := &recNotifier{}

	return NewCommentStore(svc, n), svc, n
}

func withComments(id int64, title string, cs ...models.Comment) *models.ArticleList {
	return &models.ArticleList{Data: []models.Article{{ID: models.ID(id), Title: title, Comments: cs}}}
}

func TestCommentStore_FetchComments_TitleResolution(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cs := []models.Comment{{ID: 1, DocumentID: "c-1", Content: "Lovely"}}

	explicit, svc1, _ := newCommentStore(t)
	svc1.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(withComments(42, "My Trip", cs...), nil)
	require.NoError(t, explicit.FetchComments(ctx, 42, "My Trip"))

	resolved, svc2, _ := newCommentStore(t)
	resolved.SetArticleTitle(42, "My Trip")
	svc2.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(withComments(42, "My Trip", cs...), nil)
	require.NoError(t, resolved.FetchComments(ctx, 42, ""))

	require.Equal(t, explicit.State(), resolved.State())
	require.Equal(t, cs, resolved.Comments(42))
}

func TestCommentStore_FetchComments_NoTitle(t *testing.T) {
	t.Parallel()

	s, _, _ := newCommentStore(t)

	err := s.FetchComments(context.Background(), 42, "")
	require.ErrorIs(t, err, ErrNoArticleTitle)

	st := s.State()
	require.Equal(t, "No article title available to fetch comments", st.Error)
	require.False(t, st.Loading)
}

func TestCommentStore_FetchComments_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		s, svc, n := newCommentStore(t)
		svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(nil, serverErr())

		require.Error(t, s.FetchComments(ctx, 42, "My Trip"))
		require.Equal(t, "Failed to load comments", s.State().Error)
		require.Equal(t, "Failed to load comments", n.last().Description)
	})

	t.Run("no token is silent", func(t *testing.T) {
		t.Parallel()

		s, svc, n := newCommentStore(t)
		svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(nil, service.ErrNoToken)

		require.ErrorIs(t, s.FetchComments(ctx, 42, "My Trip"), service.ErrNoToken)
		require.Empty(t, s.State().Error)
		require.Empty(t, n.titles())
	})

	t.Run("unknown article keeps previous comments", func(t *testing.T) {
		t.Parallel()

		s, svc, _ := newCommentStore(t)
		prev := []models.Comment{{ID: 1, DocumentID: "c-1"}}
		gomock.InOrder(
			svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(withComments(42, "My Trip", prev...), nil),
			svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(&models.ArticleList{Data: []models.Article{}}, nil),
		)

		require.NoError(t, s.FetchComments(ctx, 42, "My Trip"))
		require.NoError(t, s.FetchComments(ctx, 42, ""))
		require.Equal(t, prev, s.Comments(42))
	})
}

func TestCommentStore_AddComment_Refetches(t *testing.T) {
	t.Parallel()

	s, svc, n := newCommentStore(t)
	ctx := context.Background()
	s.SetArticleTitle(42, "My Trip")

	added := models.Comment{ID: 5, DocumentID: "c-5", Content: "Wow"}
	gomock.InOrder(
		svc.EXPECT().CreateComment(gomock.Any(), "Wow", models.ID(42)).Return(&added, nil),
		svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(withComments(42, "My Trip", added), nil),
	)

	require.NoError(t, s.AddComment(ctx, "Wow", 42))
	require.Equal(t, []models.Comment{added}, s.Comments(42))
	require.Equal(t, "Comment Added", n.last().Title)
	require.False(t, s.State().Loading)
}

func TestCommentStore_AddComment_Failure(t *testing.T) {
	t.Parallel()

	s, svc, n := newCommentStore(t)
	svc.EXPECT().CreateComment(gomock.Any(), "Wow", models.ID(42)).Return(nil, service.ErrNoToken)

	require.Error(t, s.AddComment(context.Background(), "Wow", 42))
	require.Equal(t, "Failed to add comment", s.State().Error)
	require.Equal(t, "Failed to add comment. Please try again.", n.last().Description)
}

func TestCommentStore_UpdateAndDelete_RefetchOwner(t *testing.T) {
	t.Parallel()

	s, svc, n := newCommentStore(t)
	ctx := context.Background()

	c1 := models.Comment{ID: 1, DocumentID: "c-1", Content: "old"}
	c2 := models.Comment{ID: 2, DocumentID: "c-2", Content: "other"}
	edited := models.Comment{ID: 1, DocumentID: "c-1", Content: "new"}

	gomock.InOrder(
		svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(withComments(42, "My Trip", c1), nil),
		svc.EXPECT().ArticleByTitle(gomock.Any(), "Other").Return(withComments(7, "Other", c2), nil),

		svc.EXPECT().UpdateComment(gomock.Any(), "c-1", "new").Return(&edited, nil),
		svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(withComments(42, "My Trip", edited), nil),

		svc.EXPECT().DeleteComment(gomock.Any(), "c-1").Return(nil),
		svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(withComments(42, "My Trip"), nil),
	)

	require.NoError(t, s.FetchComments(ctx, 42, "My Trip"))
	require.NoError(t, s.FetchComments(ctx, 7, "Other"))

	require.NoError(t, s.UpdateComment(ctx, "c-1", "new"))
	require.Equal(t, []models.Comment{edited}, s.Comments(42))
	require.Equal(t, "Comment Updated", n.last().Title)

	require.NoError(t, s.DeleteComment(ctx, "c-1"))
	require.Empty(t, s.Comments(42))
	require.NotNil(t, s.Comments(42))
	require.Equal(t, []models.Comment{c2}, s.Comments(7))
	require.Equal(t, "Comment Deleted", n.last().Title)
}

func TestCommentStore_DeleteComment_Failure(t *testing.T) {
	t.Parallel()

	s, svc, n := newCommentStore(t)
	svc.EXPECT().DeleteComment(gomock.Any(), "c-9").Return(serverErr())

	require.Error(t, s.DeleteComment(context.Background(), "c-9"))
	require.Equal(t, "Failed to delete comment", s.State().Error)
	require.Equal(t, "Server error. Please try again later.", n.last().Description)
}

func TestCommentStore_ClearComments(t *testing.T) {
	t.Parallel()

	s, svc, _ := newCommentStore(t)
	svc.EXPECT().ArticleByTitle(gomock.Any(), "My Trip").Return(withComments(42, "My Trip", models.Comment{ID: 1}), nil)

	require.NoError(t, s.FetchComments(context.Background(), 42, "My Trip"))
	s.ClearComments()

	st := s.State()
	require.Empty(t, st.CommentsByArticle)
	require.Empty(t, st.ArticleTitles)
	require.Nil(t, s.Comments(42))
}
