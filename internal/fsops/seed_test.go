package fsops

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerr "gcmgen/internal/errors"
	"gcmgen/internal/layout"
	"gcmgen/internal/plan"
)

func seedCanonical(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, Seed(SeedArgs{Root: root, Entries: layout.Contents()}))
}

func TestSeed_WritesCanonicalContent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, build(t, root, layout.Tree(), &recorder{}))
	seedCanonical(t, root)

	for _, e := range layout.Contents() {
		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(e.Path)))
		require.NoError(t, err, e.Path)
		assert.Equal(t, e.Content, string(got), e.Path)
		assert.NotEmpty(t, got, e.Path)
	}
}

func TestSeed_RestampsEditedFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, build(t, root, layout.Tree(), &recorder{}))
	seedCanonical(t, root)

	env := filepath.Join(root, ".env")
	require.NoError(t, os.WriteFile(env, []byte("DB_PASSWORD=trocada\n"), 0o644))

	seedCanonical(t, root)

	var want string
	for _, e := range layout.Contents() {
		if e.Path == ".env" {
			want = e.Content
		}
	}
	got, err := os.ReadFile(env)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestSeed_NeverCreatesPaths(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	err := Seed(SeedArgs{
		Root:     root,
		Entries:  []plan.ContentEntry{{Path: "docs/ADRs/001-mvc-to-fastapi.md", Content: "# ADR\n"}},
		Reporter: rec,
	})
	require.Error(t, err)
	assert.Equal(t, gerr.EIO, gerr.GetCode(err))
	assert.NoDirExists(t, filepath.Join(root, "docs"))
	assert.Len(t, rec.fails, 1)
}

func TestSeed_StopsAtFirstFailure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "b.txt"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.txt"), nil, 0o644))

	rec := &recorder{}
	err := Seed(SeedArgs{
		Root: root,
		Entries: []plan.ContentEntry{
			{Path: "a.txt", Content: "a"},
			{Path: "b.txt", Content: "b"},
			{Path: "c.txt", Content: "c"},
		},
		Reporter: rec,
	})
	require.Error(t, err)
	assert.Equal(t, filepath.Join(root, "b.txt"), gerr.PathOf(err))

	a, _ := os.ReadFile(filepath.Join(root, "a.txt"))
	c, _ := os.ReadFile(filepath.Join(root, "c.txt"))
	assert.Equal(t, "a", string(a))
	assert.Empty(t, c)
	assert.Len(t, rec.events, 1)
}

func TestSeed_RejectsEscapingPath(t *testing.T) {
	err := Seed(SeedArgs{Root: t.TempDir(), Entries: []plan.ContentEntry{{Path: "../x", Content: "x"}}})
	require.Error(t, err)
	assert.Equal(t, gerr.ESpec, gerr.GetCode(err))
}

func TestSeed_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	require.NoError(t, Seed(SeedArgs{Root: root, Entries: layout.Contents(), DryRun: true, Reporter: rec}))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Len(t, rec.events, len(layout.Contents()))
}

func TestSeed_WritesThroughSymlinkedFile(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "shared.env")
	require.NoError(t, os.WriteFile(shared, []byte("OLD=1\n"), 0o644))
	root := t.TempDir()
	link := filepath.Join(root, ".env")
	if err := os.Symlink(shared, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tree := plan.Tree{plan.E(".env", plan.File())}
	entries := []plan.ContentEntry{{Path: ".env", Content: "DB_NAME=gcm_db\n"}}
	require.NoError(t, build(t, root, tree, &recorder{}))
	require.NoError(t, Seed(SeedArgs{Root: root, Entries: entries}))

	got, err := os.ReadFile(shared)
	require.NoError(t, err)
	assert.Equal(t, "DB_NAME=gcm_db\n", string(got))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestSeed_PermissionErrorIsFatal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), nil, 0o644))

	orig := openFile
	openFile = func(name string, _ int, _ os.FileMode) (*os.File, error) {
		return nil, &iofs.PathError{Op: "open", Path: name, Err: iofs.ErrPermission}
	}
	t.Cleanup(func() { openFile = orig })

	err := Seed(SeedArgs{Root: root, Entries: []plan.ContentEntry{{Path: "README.md", Content: "# GCM\n"}}})
	require.Error(t, err)
	assert.Equal(t, gerr.EPermission, gerr.GetCode(err))
	assert.Equal(t, filepath.Join(root, "README.md"), gerr.PathOf(err))
}
