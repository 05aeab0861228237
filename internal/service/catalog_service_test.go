package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
)

func TestCreateCategoryDefaultsAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, nil)

	c, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Gardening"})
	require.NoError(t, err)
	require.Equal(t, domain.CategoryDefaultIcon, c.Icon)
	require.Equal(t, domain.CategoryDefaultColor, c.Color)

	_, err = svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Gardening"})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeCategoryExists, ae.Code)
}

func TestCreateServiceValidatesCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, nil)

	_, err := svc.CreateService(context.Background(), CreateServiceInput{Name: "Mowing", CategoryID: 999})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeCategoryNotFound, ae.Code)

	cat, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Gardening"})
	require.NoError(t, err)

	out, err := svc.CreateService(context.Background(), CreateServiceInput{
		Name:       "Mowing",
		CategoryID: cat.ID,
		BasePrice:  "25.50",
	})
	require.NoError(t, err)
	require.Equal(t, 60, out.DurationMin)
	require.True(t, out.BasePrice.Equal(mustDecimal(t, "25.50")))

	got, err := svc.GetService(context.Background(), out.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	require.Equal(t, "Gardening", got.Category.Name)
}
