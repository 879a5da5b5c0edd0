//go:build integration

package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const concurrentCallers = 8

func TestUpsertCartConcurrentCallersShareOneRow(t *testing.T) {
	client := dbtest.OpenPostgres(t, "../../pkg/migrate/migrations")
	conn := client.DB()
	repo := NewRepository(conn)
	vendor := dbtest.MustCreateVendor(t, conn, "Crescent")
	identity := ForSession(uuid.NewString())

	ids := make([]uuid.UUID, concurrentCallers)
	errs := make([]error, concurrentCallers)
	var wg sync.WaitGroup
	for i := 0; i < concurrentCallers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cart, err := repo.UpsertCart(context.Background(), identity, vendor.ID)
			errs[i] = err
			if err == nil {
				ids[i] = cart.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, conn.Model(&models.Cart{}).
		Where("identity_key = ? AND vendor_id = ?", identity.Key(), vendor.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIncrementItemConcurrentCallersAccumulate(t *testing.T) {
	client := dbtest.OpenPostgres(t, "../../pkg/migrate/migrations")
	conn := client.DB()
	repo := NewRepository(conn)
	ctx := context.Background()
	vendor := dbtest.MustCreateVendor(t, conn, "Crescent")
	product := dbtest.MustCreateProduct(t, conn, vendor.ID, "Mug", "12.00")
	cart, err := repo.UpsertCart(ctx, ForSession(uuid.NewString()), vendor.ID)
	require.NoError(t, err)

	errs := make([]error, concurrentCallers)
	var wg sync.WaitGroup
	for i := 0; i < concurrentCallers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.IncrementItem(ctx, cart.ID, product.ID)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	items, err := repo.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, concurrentCallers, items[0].Quantity)
}
