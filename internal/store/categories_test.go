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

func TestCategoryStore_CRUD(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockCategoryService(gomock.NewController(t))
	s := NewCategoryStore(svc)
	ctx := context.Background()

	travel := models.Category{ID: 1, DocumentID: "cat-1", Name: "Travel"}
	beach := models.Category{ID: 2, DocumentID: "cat-2", Name: "Beach"}
	renamed := models.Category{ID: 2, DocumentID: "cat-2", Name: "Beaches"}

	gomock.InOrder(
		svc.EXPECT().Categories(gomock.Any()).Return(&models.CategoryList{Data: []models.Category{travel}}, nil),
		svc.EXPECT().CreateCategory(gomock.Any(), models.CategoryInput{Name: "Beach"}).Return(&beach, nil),
		svc.EXPECT().UpdateCategory(gomock.Any(), "cat-2", models.CategoryInput{Name: "Beaches"}).Return(&renamed, nil),
		svc.EXPECT().DeleteCategory(gomock.Any(), "cat-1").Return(nil),
	)

	require.NoError(t, s.FetchCategories(ctx))
	require.Equal(t, []models.Category{travel}, s.State().Categories)

	_, err := s.CreateCategory(ctx, models.CategoryInput{Name: "Beach"})
	require.NoError(t, err)
	require.Equal(t, []models.Category{travel, beach}, s.State().Categories)

	_, err = s.UpdateCategory(ctx, "cat-2", models.CategoryInput{Name: "Beaches"})
	require.NoError(t, err)
	require.Equal(t, []models.Category{travel, renamed}, s.State().Categories)

	require.NoError(t, s.DeleteCategory(ctx, "cat-1"))
	st := s.State()
	require.Equal(t, []models.Category{renamed}, st.Categories)
	require.False(t, st.Loading)
	require.Empty(t, st.Error)
}

func TestCategoryStore_Errors(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockCategoryService(gomock.NewController(t))
	s := NewCategoryStore(svc)
	ctx := context.Background()

	svc.EXPECT().Categories(gomock.Any()).Return(nil, service.ErrNoToken)
	require.ErrorIs(t, s.FetchCategories(ctx), service.ErrNoToken)
	require.Equal(t, "Failed to fetch categories", s.State().Error)

	svc.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil, serverErr())
	_, err := s.CreateCategory(ctx, models.CategoryInput{Name: "Beach"})
	require.Error(t, err)
	st := s.State()
	require.Equal(t, "Server error. Please try again later.", st.Error)
	require.Empty(t, st.Categories)
	require.False(t, st.Loading)
}
