package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/raushankrgupta/tryon-studio/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogCommandPrintsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `[{"id":"tee","name":"Tee","url":"catalog/tee.png","category":"clothing"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	out, err := execute(t, "catalog", "--file", path)
	require.NoError(t, err)

	var items []models.WardrobeItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "tee", items[0].ID)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	out, err := execute(t, "token", "--subject", "ops")
	require.NoError(t, err)

	token, err := utils.ValidateToken("s3cret", string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "ops", sub)
}

func TestImportRequiresURL(t *testing.T) {
	_, err := execute(t, "import")
	assert.Error(t, err)
}
