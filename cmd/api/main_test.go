package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("STORAGE_FILE_PATH", path)
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProductsCommand_AddAndList(t *testing.T) {
	setupFileStore(t)

	out, err := execute(t, "products", "add", "--name", "Widget", "--description", "A widget", "--price", "9.99")
	require.NoError(t, err)
	assert.Equal(t, "Added product 1: Widget (9.99)\n", out)

	out, err = execute(t, "products", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "9.99")

	out, err = execute(t, "products", "list", "--json")
	require.NoError(t, err)

	var resp model.ProductListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Widget", resp.Products[0].Name)
}

func TestProductsCommand_AddInvalid(t *testing.T) {
	setupFileStore(t)

	_, err := execute(t, "products", "add", "--name", "Widget", "--price", "9.99")
	require.Error(t, err)
	assert.Equal(t, model.ErrMissingFields, err)
}

func TestProductsCommand_ListEmpty(t *testing.T) {
	setupFileStore(t)

	out, err := execute(t, "products", "list")
	require.NoError(t, err)
	assert.Equal(t, "No products found\n", out)

	out, err = execute(t, "products", "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"count":0,"products":[]}`, out)
}

func TestProductsCommand_Seed(t *testing.T) {
	setupFileStore(t)

	out, err := execute(t, "products", "seed", "--count", "7")
	require.NoError(t, err)
	assert.Equal(t, "Seeded 7 products\n", out)

	out, err = execute(t, "products", "list", "--json")
	require.NoError(t, err)

	var resp model.ProductListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 7, resp.Count)
	assert.Equal(t, int64(7), resp.Products[6].ID)
}

func TestProductsCommand_SeedRejectsZero(t *testing.T) {
	setupFileStore(t)

	_, err := execute(t, "products", "seed", "--count", "0")
	assert.Error(t, err)
}

func TestProductsCommand_InvalidConfig(t *testing.T) {
	setupFileStore(t)
	t.Setenv("STORAGE_BACKEND", "ftp")

	_, err := execute(t, "products", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
