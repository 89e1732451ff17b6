package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"eduportal/internal/database"
	"eduportal/internal/domain"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestLeadRepository_GetByNumericID(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(setupDB(t))

	lead := &domain.Lead{LeadID: 1042, Name: "Aida", Phone: "+77010000000", Status: domain.LeadStatusNew}
	require.NoError(t, repo.Create(ctx, lead))
	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())

	got, err := repo.GetByNumericID(ctx, 1042)
	require.NoError(t, err)
	assert.Equal(t, "Aida", got.Name)
	assert.Equal(t, lead.ID, got.ID)

	_, err = repo.GetByNumericID(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeadRepository_CreateDuplicateNumericID(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(setupDB(t))

	require.NoError(t, repo.Create(ctx, &domain.Lead{LeadID: 5}))
	err := repo.Create(ctx, &domain.Lead{LeadID: 5})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLeadRepository_GetByPhoneReturnsOldest(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(setupDB(t))

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	newer := &domain.Lead{LeadID: 2, Name: "newer", Phone: "555"}
	newer.CreatedAt = base.Add(time.Hour)
	older := &domain.Lead{LeadID: 1, Name: "older", Phone: "555"}
	older.CreatedAt = base

	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, older))

	got, err := repo.GetByPhone(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, "older", got.Name)

	_, err = repo.GetByPhone(ctx, "000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeadRepository_SaveComparesVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(setupDB(t))

	lead := &domain.Lead{LeadID: 1042, Status: domain.LeadStatusNew}
	require.NoError(t, repo.Create(ctx, lead))

	first, err := repo.GetByNumericID(ctx, 1042)
	require.NoError(t, err)
	second, err := repo.GetByNumericID(ctx, 1042)
	require.NoError(t, err)

	first.Status = domain.LeadStatusFileOpen
	first.Documents = []domain.Document{{ID: "a1", Name: "1-t.pdf", Size: 3, Type: "transcript"}}
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	second.Notes = "stale"
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	stored, err := repo.GetByNumericID(ctx, 1042)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusFileOpen, stored.Status)
	assert.Empty(t, stored.Notes)
	require.Len(t, stored.Documents, 1)
	assert.Equal(t, "transcript", stored.Documents[0].Type)
}

func TestLeadRepository_SaveUnknownLead(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))

	lead := &domain.Lead{LeadID: 9}
	lead.ID = "missing"
	err := repo.Save(context.Background(), lead)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollection_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	faqs := NewCollection[domain.FAQ](setupDB(t))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, q := range []string{"first", "second", "third"} {
		f := &domain.FAQ{Question: q, Answer: "a"}
		f.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, faqs.Create(ctx, f))
	}

	items, err := faqs.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].Question)
	assert.Equal(t, "first", items[2].Question)
}

func TestCollection_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	services := NewCollection[domain.Service](setupDB(t))

	svc := &domain.Service{Title: "Visa", Description: "old"}
	require.NoError(t, services.Create(ctx, svc))

	updated := *svc
	updated.Description = "new"
	require.NoError(t, services.Replace(ctx, svc.ID, &updated))

	got, err := services.Get(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)

	assert.ErrorIs(t, services.Replace(ctx, "nope", &updated), domain.ErrNotFound)

	require.NoError(t, services.Delete(ctx, svc.ID))
	assert.ErrorIs(t, services.Delete(ctx, svc.ID), domain.ErrNotFound)
	_, err = services.Get(ctx, svc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollection_Increment(t *testing.T) {
	ctx := context.Background()
	materials := NewCollection[domain.Material](setupDB(t))

	m := &domain.Material{Title: "Guide"}
	require.NoError(t, materials.Create(ctx, m))

	require.NoError(t, materials.Increment(ctx, m.ID, "downloads"))
	require.NoError(t, materials.Increment(ctx, m.ID, "downloads"))

	got, err := materials.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Downloads)

	assert.ErrorIs(t, materials.Increment(ctx, "missing", "downloads"), domain.ErrNotFound)
}

func TestCounselorRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCounselorRepository(setupDB(t))

	c := &domain.Counselor{CounselorID: 11, Name: "Jane Doe", Username: "jane"}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByUsername(ctx, " jane ")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)

	got, err = repo.GetByNumericID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "john")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Create(ctx, &domain.Counselor{CounselorID: 12, Username: "jane"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
