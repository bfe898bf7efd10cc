package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products":[
		{"id":"p1","name":"Brass Diya Set","description":"Lamps","price":1200,"imageUrl":"https://img/1","category":"Home Decor","tags":["diwali"],"rating":4.5,"reviews":12}
	]}`), 0o600))

	products, err := readCatalog(path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, []string{"diwali"}, products[0].Tags)
	require.NotNil(t, products[0].Rating)
	assert.Equal(t, 4.5, *products[0].Rating)
}

func TestReadCatalogErrors(t *testing.T) {
	_, err := readCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = readCatalog(path)
	assert.ErrorContains(t, err, "invalid catalog file")

	require.NoError(t, os.WriteFile(path, []byte(`{"products":[]} {"products":[]}`), 0o600))
	_, err = readCatalog(path)
	assert.ErrorContains(t, err, "invalid catalog file")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("SEED_TEST_VALUE", "set")
	assert.Equal(t, "set", envOr("SEED_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", envOr("SEED_TEST_UNSET_VALUE", "fallback"))
}
