package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gudang-api/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := jwt.Generate("s3cret", "gudang-ops", "operator", "gudang-api", 5)
	require.NoError(t, err)

	sub, role, err := jwt.Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "gudang-ops", sub)
	assert.Equal(t, "operator", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("s3cret", "gudang-ops", "admin", "gudang-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("s3cret", "gudang-ops", "admin", "gudang-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("s3cret", token)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := jwt.Generate("", "x", "admin", "gudang-api", 5)
	assert.Error(t, err)
}
