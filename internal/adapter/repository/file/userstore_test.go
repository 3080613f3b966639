package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strogmv/userstore/internal/domain"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	store := NewUserStore(filepath.Join(t.TempDir(), "database.json"))

	users, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestSave_WritesIndentedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store := NewUserStore(path)

	err := store.Save(context.Background(), domain.Users{{Number: "555-1234", Status: "active"}})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "[\n  {\n    \"number\": \"555-1234\",\n    \"status\": \"active\"\n  }\n]"
	assert.Equal(t, want, string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestSave_EmptyListIsEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store := NewUserStore(path)

	require.NoError(t, store.Save(context.Background(), nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestRoundTrip_PreservesOrder(t *testing.T) {
	store := NewUserStore(filepath.Join(t.TempDir(), "nested", "dir", "database.json"))
	users := domain.Users{
		{Number: "3", Status: "c"},
		{Number: "1", Status: "a"},
		{Number: "2", Status: "b"},
	}

	require.NoError(t, store.Save(context.Background(), users))
	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, users, got)
}

func TestSave_OverwritesPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store := NewUserStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Users{{Number: "1"}, {Number: "2"}}))
	require.NoError(t, store.Save(ctx, domain.Users{{Number: "2"}}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Users{{Number: "2"}}, got)
}

func TestSave_UnwritableDirFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewUserStore(filepath.Join(blocker, "database.json")).Save(context.Background(), domain.Users{})

	assert.Error(t, err)
}

func TestLoad_CorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewUserStore(path).Load(context.Background())

	assert.Error(t, err)
}

func TestDecode_NullAndBlank(t *testing.T) {
	for _, in := range []string{"", "  \n", "null"} {
		got, err := Decode([]byte(in))
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, domain.Users{}, got, "input %q", in)
	}
}

func TestSave_DoesNotEscapeHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store := NewUserStore(path)

	require.NoError(t, store.Save(context.Background(), domain.Users{{Number: "a&b", Status: "<on>"}}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"number": "a&b"`)
	assert.Contains(t, string(b), `"status": "<on>"`)
	assert.NotContains(t, string(b), `\u0026`)
}

func TestSave_WithPerm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store := NewUserStore(path, WithPerm(0o600))
	assert.Equal(t, path, store.Path())

	require.NoError(t, store.Save(context.Background(), domain.Users{{Number: "1", Status: "a"}}))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}
