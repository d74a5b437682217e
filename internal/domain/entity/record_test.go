package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
)

func TestRecord_MarshalJSON_OrdenDelEsquema(t *testing.T) {
	rec := entity.Outgoing.NewRecord()
	rec.ID = "abc"
	rec.Values[entity.KeyShipmentNote] = "SJ-9"
	rec.Values[entity.KeyDate] = "2024-02-02"
	rec.Values[entity.KeyIssuerName] = "Budi"
	rec.Values[entity.KeyCarrierName] = "Joko"
	rec.Values[entity.KeyItemName] = "Mur"
	rec.Qty = 3

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"_id":"abc","no_surat_jalan":"SJ-9","tanggal":"2024-02-02","yang_mengeluarkan":"Budi","yang_membawa":"Joko","nama_barang":"Mur","qty":3}`,
		string(b))
}

func TestRecord_MarshalJSON_IncluyeMetadatos(t *testing.T) {
	ts := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	rec := entity.Incoming.NewRecord()
	rec.ID = "x"
	rec.Qty = 1
	rec.CreatedAt = ts
	rec.UpdatedAt = ts

	var body map[string]any
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, "2024-01-01T08:00:00Z", body["created_at"])
	assert.Equal(t, "2024-01-01T08:00:00Z", body["updated_at"])
	assert.Equal(t, float64(1), body["qty"])
}

func TestRecord_CloneEsIndependiente(t *testing.T) {
	rec := entity.Incoming.NewRecord()
	rec.Values[entity.KeyItemName] = "Bolt"
	cp := rec.Clone()
	cp.Values[entity.KeyItemName] = "Nut"
	assert.Equal(t, "Bolt", rec.Get(entity.KeyItemName))
}

func TestSchema_SearchableKeysExcluyeFechaYQty(t *testing.T) {
	for _, s := range entity.Schemas() {
		keys := s.SearchableKeys()
		assert.Contains(t, keys, entity.KeyShipmentNote, s.Name)
		assert.Contains(t, keys, entity.KeyItemName, s.Name)
		assert.NotContains(t, keys, entity.KeyDate, s.Name)
		assert.NotContains(t, keys, entity.KeyQty, s.Name)
	}
	assert.ElementsMatch(t,
		[]string{entity.KeyShipmentNote, entity.KeySupplierName, entity.KeyIssuerName, entity.KeyItemName},
		entity.FactoryReturn.SearchableKeys())
}
