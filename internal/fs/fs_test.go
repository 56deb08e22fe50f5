package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryExists(t *testing.T) {
	tempDir := t.TempDir()

	assert.True(t, DirectoryExists(tempDir))
	assert.False(t, DirectoryExists(filepath.Join(tempDir, "nonexistent")))

	file := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), FileStrict))
	assert.False(t, DirectoryExists(file))
	assert.True(t, FileExists(file))
	assert.False(t, FileExists(tempDir))
}

func TestPathExists(t *testing.T) {
	tempDir := t.TempDir()

	assert.True(t, PathExists(tempDir))
	assert.False(t, PathExists(filepath.Join(tempDir, "missing")))

	if runtime.GOOS != "windows" {
		t.Run("dangling symlink counts as existing", func(t *testing.T) {
			link := filepath.Join(tempDir, "link")
			require.NoError(t, os.Symlink(filepath.Join(tempDir, "gone"), link))
			assert.True(t, PathExists(link))
		})
	}
}

func TestIsEmptyDir(t *testing.T) {
	tempDir := t.TempDir()

	empty, err := IsEmptyDir(tempDir)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "f"), []byte("x"), FileStrict))
	empty, err = IsEmptyDir(tempDir)
	require.NoError(t, err)
	assert.False(t, empty)

	_, err = IsEmptyDir(filepath.Join(tempDir, "missing"))
	assert.Error(t, err)
}

func TestRemoveEmptyParents(t *testing.T) {
	t.Run("removes empty chain up to stop", func(t *testing.T) {
		root := t.TempDir()
		deep := filepath.Join(root, "proj", "worktrees", "feature")
		require.NoError(t, os.MkdirAll(deep, DirStrict))

		require.NoError(t, RemoveEmptyParents(deep, root))

		assert.False(t, PathExists(filepath.Join(root, "proj")))
		assert.True(t, DirectoryExists(root))
	})

	t.Run("stops at first non-empty directory", func(t *testing.T) {
		root := t.TempDir()
		deep := filepath.Join(root, "proj", "worktrees", "feature")
		require.NoError(t, os.MkdirAll(deep, DirStrict))
		require.NoError(t, os.WriteFile(filepath.Join(root, "proj", "keep"), []byte("x"), FileStrict))

		require.NoError(t, RemoveEmptyParents(deep, root))

		assert.False(t, PathExists(filepath.Join(root, "proj", "worktrees")))
		assert.True(t, DirectoryExists(filepath.Join(root, "proj")))
	})

	t.Run("skips already removed directory", func(t *testing.T) {
		root := t.TempDir()
		parent := filepath.Join(root, "worktrees")
		require.NoError(t, os.MkdirAll(parent, DirStrict))

		require.NoError(t, RemoveEmptyParents(filepath.Join(parent, "gone"), root))
		assert.False(t, PathExists(parent))
	})

	t.Run("ignores directories outside stop", func(t *testing.T) {
		root := t.TempDir()
		other := t.TempDir()

		require.NoError(t, RemoveEmptyParents(other, root))
		assert.True(t, DirectoryExists(other))
	})
}

func TestWriteFileAtomic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "gitdir")

	require.NoError(t, WriteFileAtomic(path, []byte("first\n"), FileGit))
	require.NoError(t, WriteFileAtomic(path, []byte("second\n"), FileGit))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestPathsEqual(t *testing.T) {
	assert.True(t, PathsEqual("/a/b/", "/a/b"))
	assert.True(t, PathsEqual("/a/./b", "/a/b"))
	assert.False(t, PathsEqual("/a/b", "/a/c"))

	if runtime.GOOS == "windows" {
		assert.True(t, PathsEqual(`C:\Work`, `c:\work`))
	}
}

func TestPathHasPrefix(t *testing.T) {
	sep := string(filepath.Separator)
	base := filepath.Join(sep+"work", "proj")

	assert.True(t, PathHasPrefix(filepath.Join(base, "sub"), base))
	assert.False(t, PathHasPrefix(base, base))
	assert.False(t, PathHasPrefix(base+"-other", base))
	assert.True(t, PathHasPrefix(filepath.Join(sep+"x"), sep))

	assert.True(t, IsInside(base, base))
	assert.True(t, IsInside(filepath.Join(base, "a", "b"), base))
	assert.False(t, IsInside(base+"2", base))
}
