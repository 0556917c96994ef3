package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuvyra_admin/internal/model"
	"nuvyra_admin/internal/testutil"
)

func seedProduct(t *testing.T, repo *ProductRepository, name, category string, active bool) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:     name,
		Image:    "https://img.example/" + name + ".png",
		Category: category,
		Price:    decimal.NewFromInt(5),
		IsActive: active,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestProductCreateAssignsIDAndTimestamp(t *testing.T) {
	repo := NewProductRepository(testutil.NewDB(t))
	p := seedProduct(t, repo, "shirt", "SHIRTS", false)

	_, err := uuid.Parse(p.ID)
	require.NoError(t, err)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "false is stored, not replaced by a default")
	assert.True(t, got.Price.Equal(decimal.NewFromInt(5)))
}

func TestProductGetByIDNotFound(t *testing.T) {
	repo := NewProductRepository(testutil.NewDB(t))
	_, err := repo.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductListFiltersAndSort(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testutil.NewDB(t))
	seedProduct(t, repo, "b", "SHIRTS", true)
	seedProduct(t, repo, "a", "SHIRTS", false)
	seedProduct(t, repo, "c", "HATS", true)

	all, err := repo.List(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, names(all))

	desc, err := repo.List(ctx, ProductFilter{SortBy: "name", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, names(desc))

	shirts, err := repo.List(ctx, ProductFilter{Category: " shirts "})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(shirts))

	active := true
	activeShirts, err := repo.List(ctx, ProductFilter{Category: "SHIRTS", IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names(activeShirts))

	// 未知排序字段回退到 name
	fallback, err := repo.List(ctx, ProductFilter{SortBy: "price; DROP TABLE products"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(fallback))
}

func TestProductCategoriesNormalizedDistinctSorted(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewProductRepository(db)
	seedProduct(t, repo, "a", "SHIRTS", true)
	seedProduct(t, repo, "b", "HATS", true)
	// 历史脏数据：未规范化或为空
	require.NoError(t, db.Create(&model.Product{Name: "c", Image: "https://x/c", Category: " shirts "}).Error)
	require.NoError(t, db.Create(&model.Product{Name: "d", Image: "https://x/d", Category: ""}).Error)

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"HATS", "SHIRTS"}, cats)
}

func TestProductUpdateNeverTouchesCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testutil.NewDB(t))
	p := seedProduct(t, repo, "a", "SHIRTS", true)
	before, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	values := map[string]any{
		model.ColName:      "renamed",
		model.ColCreatedAt: time.Now().Add(48 * time.Hour),
		"id":               uuid.NewString(),
	}
	require.NoError(t, repo.Update(ctx, p.ID, values))
	assert.Len(t, values, 3, "caller's map is left untouched")
	assert.Contains(t, values, model.ColCreatedAt)

	after, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", after.Name)
	assert.Equal(t, p.ID, after.ID)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	assert.Error(t, repo.Update(ctx, p.ID, map[string]any{model.ColCreatedAt: time.Now()}))

	assert.ErrorIs(t, repo.Update(ctx, uuid.NewString(), map[string]any{model.ColName: "x"}), ErrNotFound)
}

func TestProductDeleteAndBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testutil.NewDB(t))
	a := seedProduct(t, repo, "a", "X", true)
	b := seedProduct(t, repo, "b", "X", true)
	c := seedProduct(t, repo, "c", "X", true)

	n, err := repo.SetActiveMany(ctx, []string{a.ID, b.ID, uuid.NewString()}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrNotFound)

	n, err = repo.DeleteMany(ctx, []string{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestSettingsEnsureGetUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(testutil.NewDB(t))

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Ensure(ctx))
	require.NoError(t, repo.Ensure(ctx))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nuvyra Store", s.SiteName)
	assert.Empty(t, s.SEOKeywords)

	require.NoError(t, repo.Update(ctx, map[string]any{
		"site_name":    "Nuvyra",
		"seo_keywords": model.DefaultSiteSettings().SEOKeywords,
	}))
	s, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nuvyra", s.SiteName)
}

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(testutil.NewDB(t))
	u := &model.AdminUser{Email: " Admin@Nuvyra.Store ", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "admin@nuvyra.store")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, u.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func names(list []model.Product) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Name)
	}
	return out
}
