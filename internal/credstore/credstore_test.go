package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.db")
	_, ok, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "Load must not create the file")
}

func TestSaveReplacesRow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "user_data.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, ok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, Credentials{ClientID: "1100", AccessToken: "first"}))
	require.NoError(t, s.Save(ctx, Credentials{ClientID: "1100", AccessToken: "second"}))
	require.NoError(t, s.Close())

	got, ok, err := Load(ctx, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Credentials{ClientID: "1100", AccessToken: "second"}, got)
}

func TestSaveRejectsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "user_data.db"))
	require.NoError(t, err)
	defer s.Close()
	assert.Error(t, s.Save(context.Background(), Credentials{ClientID: "x"}))
}

func TestMasked(t *testing.T) {
	assert.Equal(t, "client_id=1100 access_token=****wxyz", Credentials{ClientID: "1100", AccessToken: "abcdwxyz"}.Masked())
	assert.Equal(t, "client_id=1 access_token=abc", Credentials{ClientID: "1", AccessToken: "abc"}.Masked())
}
