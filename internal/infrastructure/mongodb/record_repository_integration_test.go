//go:build integration

package mongodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/mongodb"
)

func setupRepository(t *testing.T, schema entity.Schema) *mongodb.RecordRepo {
	t.Helper()
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:6")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return mongodb.NewRecordRepository(mongodb.Wrap(client, "gudang_test"), schema)
}

func outgoing(note, issuer, carrier string, qty int64) *entity.Record {
	rec := entity.Outgoing.NewRecord()
	rec.Values[entity.KeyShipmentNote] = note
	rec.Values[entity.KeyDate] = "2024-03-01"
	rec.Values[entity.KeyIssuerName] = issuer
	rec.Values[entity.KeyCarrierName] = carrier
	rec.Values[entity.KeyItemName] = "Semen"
	rec.Qty = qty
	return rec
}

func TestRecordRepo_CicloCompleto(t *testing.T) {
	repo := setupRepository(t, entity.Outgoing)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, repo.Ping(ctx))

	first, err := repo.Insert(ctx, outgoing("SJ-01", "Budi", "Joko", 3))
	require.NoError(t, err)
	assert.Len(t, first.ID, 24)
	_, err = repo.Insert(ctx, outgoing("SJ-02", "Sari", "Agus", 4))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, outgoing("SJ-03", "Dewi", "JOKO S.", 5))
	require.NoError(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	t.Run("busqueda por subcadena sin mayusculas", func(t *testing.T) {
		got, err := repo.Find(ctx, repository.Filter{Term: "joko", Fields: entity.Outgoing.SearchableKeys()}, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "SJ-01", got[0].Get(entity.KeyShipmentNote))
		assert.Equal(t, "SJ-03", got[1].Get(entity.KeyShipmentNote))
	})

	t.Run("metacaracteres literales", func(t *testing.T) {
		got, err := repo.Find(ctx, repository.Filter{Term: "S.", Fields: entity.Outgoing.SearchableKeys()}, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "SJ-03", got[0].Get(entity.KeyShipmentNote))
	})

	t.Run("skip y limit", func(t *testing.T) {
		got, err := repo.Find(ctx, repository.Filter{}, 1, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "SJ-02", got[0].Get(entity.KeyShipmentNote))
	})

	t.Run("replace conserva id y created_at", func(t *testing.T) {
		updated, err := repo.Replace(ctx, first.ID, outgoing("SJ-01", "Budi", "Joko", 9))
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, first.ID, updated.ID)
		assert.Equal(t, int64(9), updated.Qty)
		assert.True(t, first.CreatedAt.Equal(updated.CreatedAt))
	})

	t.Run("ids inexistentes o mal formados", func(t *testing.T) {
		got, err := repo.Replace(ctx, "000000000000000000000000", outgoing("x", "y", "z", 1))
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.Delete(ctx, "no-es-hex")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, deleted)

		again, err := repo.Delete(ctx, first.ID)
		require.NoError(t, err)
		assert.Nil(t, again)
	})
}
