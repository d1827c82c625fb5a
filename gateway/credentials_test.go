package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyStore(t *testing.T) {
	keys := NewKeyStore("  ")
	assert.False(t, keys.HasUsableCredential())

	_, err := keys.APIKey()
	assert.ErrorIs(t, err, ErrNoCredential)

	assert.ErrorIs(t, keys.Select(""), ErrEmptyKey)
	require.NoError(t, keys.Select("key-1"))
	assert.True(t, keys.HasUsableCredential())

	keys.PromptCredentialSelection()
	assert.True(t, keys.SelectionRequested())
	assert.False(t, keys.HasUsableCredential())

	require.NoError(t, keys.Select("key-2"))
	assert.False(t, keys.SelectionRequested())
	key, err := keys.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "key-2", key)
}
