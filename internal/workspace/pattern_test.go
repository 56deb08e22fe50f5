package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/git"
)

func worktreesAt(paths ...string) []git.Worktree {
	records := make([]git.Worktree, 0, len(paths))
	for _, p := range paths {
		records = append(records, git.Worktree{Name: filepath.Base(p), Path: p, Branch: filepath.Base(p)})
	}
	return records
}

func TestLocationPattern(t *testing.T) {
	tests := []struct {
		location string
		want     LocationPattern
	}{
		{"same-level", SameLevel},
		{"subdirectory", Subdirectory},
		{"custom", Custom},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := ParseLocation(tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.location, got.String())
		})
	}

	_, err := ParseLocation("elsewhere")
	assert.True(t, errors.Is(err, errors.ErrLocationInvalid))
	assert.Equal(t, "unknown", LocationPattern(42).String())
}

func TestFindCommonParent(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, ok := FindCommonParent(nil)
		assert.False(t, ok)
	})

	t.Run("shared parent", func(t *testing.T) {
		records := worktreesAt(
			filepath.FromSlash("/repo/worktrees/a"),
			filepath.FromSlash("/repo/worktrees/b"),
			filepath.FromSlash("/repo/worktrees/c"),
		)

		parent, ok := FindCommonParent(records)
		require.True(t, ok)
		assert.Equal(t, filepath.FromSlash("/repo/worktrees"), parent)
	})

	t.Run("trailing separators are ignored", func(t *testing.T) {
		records := worktreesAt(
			filepath.FromSlash("/repo/worktrees/a/"),
			filepath.FromSlash("/repo/worktrees/b"),
		)

		parent, ok := FindCommonParent(records)
		require.True(t, ok)
		assert.Equal(t, filepath.FromSlash("/repo/worktrees"), parent)
	})

	t.Run("different parents", func(t *testing.T) {
		records := worktreesAt(
			filepath.FromSlash("/repo/worktrees/a"),
			filepath.FromSlash("/elsewhere/b"),
		)

		_, ok := FindCommonParent(records)
		assert.False(t, ok)
	})

	t.Run("single worktree", func(t *testing.T) {
		parent, ok := FindCommonParent(worktreesAt(filepath.FromSlash("/work/a")))
		require.True(t, ok)
		assert.Equal(t, filepath.FromSlash("/work"), parent)
	})
}

func TestDetectPattern(t *testing.T) {
	root := filepath.FromSlash("/home/u/proj")
	main := git.Worktree{Name: "proj", Path: root, Branch: "main", Main: true}

	tests := []struct {
		name    string
		paths   []string
		want    LocationPattern
		wantDir string
	}{
		{
			name:    "same level",
			paths:   []string{"/home/u/a", "/home/u/b"},
			want:    SameLevel,
			wantDir: "/home/u",
		},
		{
			name:    "subdirectory",
			paths:   []string{"/home/u/proj/worktrees/a"},
			want:    Subdirectory,
			wantDir: "/home/u/proj/worktrees",
		},
		{
			name:    "custom",
			paths:   []string{"/home/u/proj/trees/a", "/home/u/proj/trees/b"},
			want:    Custom,
			wantDir: "/home/u/proj/trees",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := make([]string, 0, len(tt.paths))
			for _, p := range tt.paths {
				paths = append(paths, filepath.FromSlash(p))
			}
			records := append([]git.Worktree{main}, worktreesAt(paths...)...)

			detected, ok := DetectPattern(root, records)
			require.True(t, ok)
			assert.Equal(t, tt.want, detected.Pattern)
			assert.Equal(t, filepath.FromSlash(tt.wantDir), detected.Parent)
		})
	}

	t.Run("main worktree alone", func(t *testing.T) {
		_, ok := DetectPattern(root, []git.Worktree{main})
		assert.False(t, ok)
	})

	t.Run("heterogeneous", func(t *testing.T) {
		records := append([]git.Worktree{main}, worktreesAt(
			filepath.FromSlash("/home/u/a"),
			filepath.FromSlash("/home/u/proj/worktrees/b"),
		)...)

		_, ok := DetectPattern(root, records)
		assert.False(t, ok)
	})
}
