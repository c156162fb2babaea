package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Default(t *testing.T) {
	reg := Default()

	assert.True(t, reg.Contains("users"))
	assert.True(t, reg.Contains("posts"))
	assert.False(t, reg.Contains("widgets"))

	table, err := reg.Table("users")
	require.NoError(t, err)
	assert.Equal(t, "hive_users", table)
}

func TestRegistry_Table_UnknownModel(t *testing.T) {
	reg := Default()

	_, err := reg.Table("widgets")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Contains(t, err.Error(), "widgets")
}

func TestRegistry_Models_Sorted(t *testing.T) {
	reg := New([]ModelConfig{
		{Name: "posts", Table: "hive_posts"},
		{Name: "comments", Table: "hive_comments"},
		{Name: "users", Table: "hive_users"},
	})

	assert.Equal(t, []string{"comments", "posts", "users"}, reg.Models())
}

func TestRegistry_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := `models:
  - name: users
    table: hive_users
  - name: comments
    table: hive_comments
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg, err := FromFile(path)
	require.NoError(t, err)

	assert.True(t, reg.Contains("comments"))
	assert.False(t, reg.Contains("posts"))

	table, err := reg.Table("comments")
	require.NoError(t, err)
	assert.Equal(t, "hive_comments", table)
}

func TestRegistry_FromFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("models: []\n"), 0o644))
	_, err := FromFile(empty)
	assert.Error(t, err)

	missingTable := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(missingTable, []byte("models:\n  - name: users\n"), 0o644))
	_, err = FromFile(missingTable)
	assert.Error(t, err)

	_, err = FromFile(filepath.Join(dir, "does-not-exist.yaml"))
	assert.Error(t, err)
}
