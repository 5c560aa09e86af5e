package store_test

import (
	"context"
	"testing"
	"time"

	"review-service/internal/metrics"
	"review-service/internal/model"
	"review-service/internal/store"
	"review-service/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	ctx := context.Background()
	gateway := store.NewGateway(metrics.NewMock())
	drivers := store.NewRepository[model.Driver](pgContainer.DB, gateway, "drivers")

	t.Run("FirstSave_AuditEquality", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		d, err := drivers.Save(ctx, model.NewDriver(model.DriverParams{Name: "ABCD", LicenseNumber: "1"}))
		require.NoError(t, err)

		assert.NotZero(t, d.ID)
		assert.False(t, d.CreatedAt.IsZero())
		assert.True(t, d.CreatedAt.Equal(d.UpdatedAt))

		loaded, err := drivers.FindByID(ctx, d.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.True(t, loaded.CreatedAt.Equal(d.CreatedAt))
		assert.True(t, loaded.UpdatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Update_Monotonicity", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		// A frozen clock still has to yield a later updated_at.
		frozen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		frozenRepo := store.NewRepository[model.Driver](pgContainer.DB,
			store.NewGateway(metrics.NewMock(), store.WithClock(func() time.Time { return frozen })),
			"drivers",
		)

		d, err := frozenRepo.Save(ctx, model.NewDriver(model.DriverParams{Name: "ABCD", LicenseNumber: "1"}))
		require.NoError(t, err)
		createdAt := d.CreatedAt
		firstUpdate := d.UpdatedAt

		d.Name = "EFGH"
		_, err = frozenRepo.Save(ctx, d)
		require.NoError(t, err)

		assert.True(t, d.UpdatedAt.After(firstUpdate))
		assert.True(t, d.CreatedAt.Equal(createdAt))

		secondUpdate := d.UpdatedAt
		d.Name = "IJKL"
		_, err = frozenRepo.Save(ctx, d)
		require.NoError(t, err)
		assert.True(t, d.UpdatedAt.After(secondUpdate))

		loaded, err := drivers.FindByID(ctx, d.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "IJKL", loaded.Name)
		assert.True(t, loaded.CreatedAt.Equal(createdAt))
		assert.True(t, loaded.UpdatedAt.Equal(d.UpdatedAt))
	})

	t.Run("Update_CreatedAtIgnoresCaller", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		d, err := drivers.Save(ctx, model.NewDriver(model.DriverParams{Name: "ABCD", LicenseNumber: "1"}))
		require.NoError(t, err)
		createdAt := d.CreatedAt

		d.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err = drivers.Save(ctx, d)
		require.NoError(t, err)

		assert.True(t, d.CreatedAt.Equal(createdAt), "created_at is read back from the row")
	})

	t.Run("Update_MissingRow", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		d := model.NewDriver(model.DriverParams{Name: "ghost", LicenseNumber: "9"})
		d.ID = 999

		_, err := drivers.Save(ctx, d)

		assert.True(t, store.IsNotFound(err))
		assert.True(t, d.UpdatedAt.IsZero(), "stamp is rolled back on failure")
	})

	t.Run("Insert_FailureRestoresStamps", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		_, err := drivers.Save(ctx, model.NewDriver(model.DriverParams{Name: "first", LicenseNumber: "1"}))
		require.NoError(t, err)

		dup := model.NewDriver(model.DriverParams{Name: "second", LicenseNumber: "1"})
		_, err = drivers.Save(ctx, dup)

		assert.True(t, store.IsConstraintViolation(err))
		assert.True(t, dup.IsNew())
		assert.True(t, dup.CreatedAt.IsZero())
		assert.True(t, dup.UpdatedAt.IsZero())
	})

	t.Run("FindByID_Missing", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		d, err := drivers.FindByID(ctx, 12345)

		assert.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("FindAll_CountDelete", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		for _, lic := range []string{"1", "2", "3"} {
			_, err := drivers.Save(ctx, model.NewDriver(model.DriverParams{Name: "driver " + lic, LicenseNumber: lic}))
			require.NoError(t, err)
		}

		all, err := drivers.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "1", all[0].LicenseNumber)
		assert.Equal(t, "3", all[2].LicenseNumber)

		count, err := drivers.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		require.NoError(t, drivers.DeleteByID(ctx, all[1].ID))

		count, err = drivers.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		gone, err := drivers.FindByID(ctx, all[1].ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		err = drivers.DeleteByID(ctx, all[1].ID)
		assert.True(t, store.IsNotFound(err))
	})

	t.Run("FindAll_Empty", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		all, err := drivers.FindAll(ctx)

		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})
}
