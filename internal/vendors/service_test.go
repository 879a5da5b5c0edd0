package vendors

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.OpenSQLite(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestGetBySlugNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetBySlug(context.Background(), "ghost")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetBySlug(context.Background(), "  ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestGetByUserWithoutVendorIsForbidden(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByUser(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestUpdateProfileKeepsSlugAndRejectsTakenName(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	a := seedUser(t, repo.db, "a")
	first := &models.Vendor{UserID: a.ID, StoreName: "First"}
	require.NoError(t, repo.CreateWithUniqueSlug(ctx, first))
	b := seedUser(t, repo.db, "b")
	second := &models.Vendor{UserID: b.ID, StoreName: "Second"}
	require.NoError(t, repo.CreateWithUniqueSlug(ctx, second))

	updated, err := svc.UpdateProfile(ctx, first.ID, ProfileInput{
		StoreName:      "First Renamed",
		Description:    "Fresh bread",
		WhatsAppNumber: "+1 555 0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "First Renamed", updated.StoreName)
	assert.Equal(t, "first", updated.SlugValue())
	assert.Equal(t, "+1 555 0100", updated.WhatsApp())
	assert.Nil(t, updated.Instagram)

	stored, err := svc.GetBySlug(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "First Renamed", stored.StoreName)

	_, err = svc.UpdateProfile(ctx, first.ID, ProfileInput{StoreName: "Second"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestEnsureSlugAssignsOnce(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, repo.db, "owner")
	vendor := &models.Vendor{UserID: owner.ID, StoreName: "Bare Store"}
	require.NoError(t, repo.db.Create(vendor).Error)

	got, assigned, err := svc.EnsureSlug(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, assigned)
	assert.Equal(t, "bare-store", got.SlugValue())

	_, assigned, err = svc.EnsureSlug(ctx, vendor.ID)
	require.NoError(t, err)
	assert.False(t, assigned)
}
