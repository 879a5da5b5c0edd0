package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubVendorLookup struct {
	vendors map[string]*models.Vendor
	err     error
	calls   int
}

func (s *stubVendorLookup) FindBySlug(ctx context.Context, slug string) (*models.Vendor, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.vendors[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func vendorWithSlug(slug string) *models.Vendor {
	number := "15551234"
	return &models.Vendor{ID: uuid.New(), StoreName: "Crescent", Slug: &slug, WhatsAppNumber: &number}
}

func TestResolveKnownVendor(t *testing.T) {
	vendor := vendorWithSlug("crescent")
	lookup := &stubVendorLookup{vendors: map[string]*models.Vendor{"crescent": vendor}}
	resolver, err := NewResolver(lookup, "", DefaultMinLabels)
	require.NoError(t, err)

	got, err := resolver.Resolve(context.Background(), "crescent.example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, vendor.ID, got.VendorID)
	assert.Equal(t, "crescent", got.Slug)
	assert.Equal(t, "15551234", got.WhatsAppNumber)
}

func TestResolveUnknownVendorIsNotFound(t *testing.T) {
	resolver, err := NewResolver(&stubVendorLookup{}, "", DefaultMinLabels)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "ghost.example.com")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestResolveBareHostSkipsLookup(t *testing.T) {
	lookup := &stubVendorLookup{}
	resolver, err := NewResolver(lookup, "", DefaultMinLabels)
	require.NoError(t, err)

	got, err := resolver.Resolve(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, lookup.calls)
}

func TestResolveLookupFailureIsDependency(t *testing.T) {
	resolver, err := NewResolver(&stubVendorLookup{err: errors.New("db down")}, "", DefaultMinLabels)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "crescent.example.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))
	assert.Equal(t, ctx, WithContext(ctx, nil))

	tc := FromVendor(vendorWithSlug("crescent"))
	got := FromContext(WithContext(ctx, tc))
	assert.Same(t, tc, got)
}
