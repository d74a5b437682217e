package docs

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestReadDoc_JSONValidoConLosCuatroRecursos(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var spec struct {
		Info  map[string]any            `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))
	assert.Equal(t, "Gudang API", spec.Info["title"])

	for _, p := range []string{"/api/ins", "/api/outs", "/api/retur-gudangs", "/api/retur-pabriks"} {
		ops, ok := spec.Paths[p]
		require.True(t, ok, p)
		for _, m := range []string{"get", "post", "put", "delete"} {
			assert.Contains(t, ops, m, p)
		}
		assert.Contains(t, spec.Paths, p+"/report.pdf")
	}
}

func TestSwaggerJSON_CoincideConElRegistrado(t *testing.T) {
	raw, err := os.ReadFile("swagger.json")
	require.NoError(t, err)

	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var fromFile, registered map[string]any
	require.NoError(t, json.Unmarshal(raw, &fromFile))
	require.NoError(t, json.Unmarshal([]byte(doc), &registered))
	assert.Equal(t, fromFile["paths"], registered["paths"])
	assert.Equal(t, fromFile["definitions"], registered["definitions"])
}
