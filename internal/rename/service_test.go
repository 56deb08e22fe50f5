package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/git"
	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/testutil"
)

type fakeLister struct {
	worktrees []git.Worktree
	err       error
}

func (f *fakeLister) ListWorktrees(string, git.ListOptions) ([]git.Worktree, error) {
	return f.worktrees, f.err
}

type branchCall struct{ dir, oldName, newName string }

type fakeBranches struct {
	calls []branchCall
	err   error
}

func (f *fakeBranches) RenameBranch(dir, oldName, newName string) error {
	f.calls = append(f.calls, branchCall{dir, oldName, newName})
	return f.err
}

// layout mirrors what git creates for a linked worktree: the main
// repository at <dir>/proj and a worktree at <dir>/<name>.
type layout struct {
	dir  string
	repo *git.Repo
}

func newLayout(t *testing.T) *layout {
	t.Helper()
	dir := testutil.TempDir(t)
	root := filepath.Join(dir, "proj")
	testutil.Mkdir(t, filepath.Join(root, ".git", "worktrees"))

	return &layout{
		dir:  dir,
		repo: &git.Repo{Root: root, CommonDir: filepath.Join(root, ".git"), Toplevel: root},
	}
}

func (l *layout) addWorktree(t *testing.T, name, branch string) git.Worktree {
	t.Helper()
	path := filepath.Join(l.dir, name)
	admin := l.repo.AdminDir(name)

	testutil.WriteFile(t, filepath.Join(path, "README.md"), "hello")
	testutil.WriteFile(t, filepath.Join(path, ".git"), "gitdir: "+filepath.ToSlash(admin)+"\n")
	testutil.WriteFile(t, filepath.Join(admin, "gitdir"), filepath.ToSlash(filepath.Join(path, ".git"))+"\n")
	testutil.WriteFile(t, filepath.Join(admin, "HEAD"), "ref: refs/heads/"+branch+"\n")

	return git.Worktree{Name: name, Path: path, Branch: branch}
}

func (l *layout) main() git.Worktree {
	return git.Worktree{Name: "proj", Path: l.repo.Root, Branch: "main", Main: true}
}

func newTestService(l *layout, worktrees []git.Worktree, branches *fakeBranches) *Service {
	return NewService(l.repo, &fakeLister{worktrees: worktrees}, branches, nil, "")
}

func TestRename_Success(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	branches := &fakeBranches{}
	svc := newTestService(l, []git.Worktree{l.main(), feature}, branches)

	result, err := svc.Rename("feature", "feature-2")

	require.NoError(t, err)
	newPath := filepath.Join(l.dir, "feature-2")
	newAdmin := l.repo.AdminDir("feature-2")

	assert.Equal(t, newPath, result.NewPath)
	assert.True(t, result.BranchRenamed)
	assert.NoError(t, result.BranchErr)
	assert.Equal(t, "feature", result.OldBranch)
	assert.Equal(t, "feature-2", result.NewBranch)

	testutil.AssertPathMissing(t, feature.Path)
	testutil.AssertPathMissing(t, l.repo.AdminDir("feature"))
	testutil.AssertFileContent(t, filepath.Join(newPath, "README.md"), "hello")
	testutil.AssertFileContent(t, filepath.Join(newAdmin, "HEAD"), "ref: refs/heads/feature")
	testutil.AssertFileContent(t, filepath.Join(newAdmin, "gitdir"), filepath.ToSlash(filepath.Join(newPath, ".git")))
	testutil.AssertFileContent(t, filepath.Join(newPath, ".git"), "gitdir: "+filepath.ToSlash(newAdmin))

	assert.Equal(t, []branchCall{{l.repo.Root, "feature", "feature-2"}}, branches.calls)
}

func TestRename_TrimsNewName(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	svc := newTestService(l, []git.Worktree{l.main(), feature}, &fakeBranches{})

	result, err := svc.Rename("feature", "  renamed  ")

	require.NoError(t, err)
	assert.Equal(t, "feature", result.OldName)
	assert.Equal(t, "renamed", result.NewName)
	assert.Equal(t, filepath.Join(l.dir, "renamed"), result.NewPath)
}

func TestRename_BranchNotMatchingName(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "login-page")
	branches := &fakeBranches{}
	svc := newTestService(l, []git.Worktree{l.main(), feature}, branches)

	result, err := svc.Rename("feature", "login")

	require.NoError(t, err)
	assert.False(t, result.BranchRenamed)
	assert.Equal(t, "login-page", result.NewBranch)
	assert.Empty(t, branches.calls)
}

func TestRename_BranchFailureIsBestEffort(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	branches := &fakeBranches{err: errors.New("branch feature-2 already exists")}
	svc := newTestService(l, []git.Worktree{l.main(), feature}, branches)

	result, err := svc.Rename("feature", "feature-2")

	require.NoError(t, err)
	assert.False(t, result.BranchRenamed)
	require.Error(t, result.BranchErr)
	assert.Contains(t, result.BranchErr.Error(), "already exists")
	testutil.AssertPathExists(t, filepath.Join(l.dir, "feature-2"))
	testutil.AssertPathExists(t, l.repo.AdminDir("feature-2"))
}

func TestRename_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		newName string
		mutate  func(t *testing.T, l *layout, wt *git.Worktree)
		cwd     func(l *layout) string
		wantErr error
	}{
		{name: "invalid name", newName: ".hidden", wantErr: errors.ErrNameHidden},
		{name: "reserved name", newName: "HEAD", wantErr: errors.ErrNameReserved},
		{name: "same name", newName: "feature", wantErr: errors.ErrSameName},
		{
			name:    "target exists",
			newName: "taken",
			mutate: func(t *testing.T, l *layout, _ *git.Worktree) {
				testutil.Mkdir(t, filepath.Join(l.dir, "taken"))
			},
			wantErr: errors.ErrTargetExists,
		},
		{
			name:    "metadata directory exists",
			newName: "taken",
			mutate: func(t *testing.T, l *layout, _ *git.Worktree) {
				testutil.Mkdir(t, l.repo.AdminDir("taken"))
			},
			wantErr: errors.ErrTargetExists,
		},
		{
			name:    "current worktree flag",
			newName: "renamed",
			mutate: func(_ *testing.T, _ *layout, wt *git.Worktree) {
				wt.Current = true
			},
			wantErr: errors.ErrCannotRenameCurrent,
		},
		{
			name:    "working directory inside worktree",
			newName: "renamed",
			cwd:     func(l *layout) string { return filepath.Join(l.dir, "feature", "src") },
			wantErr: errors.ErrCannotRenameCurrent,
		},
		{
			name:    "detached head",
			newName: "renamed",
			mutate: func(_ *testing.T, _ *layout, wt *git.Worktree) {
				wt.Branch = git.BranchDetached
			},
			wantErr: errors.ErrDetachedHead,
		},
		{
			name:    "locked",
			newName: "renamed",
			mutate: func(_ *testing.T, _ *layout, wt *git.Worktree) {
				wt.Locked = true
			},
			wantErr: errors.ErrWorktreeLocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLayout(t)
			feature := l.addWorktree(t, "feature", "feature")
			if tt.mutate != nil {
				tt.mutate(t, l, &feature)
			}
			currentDir := ""
			if tt.cwd != nil {
				currentDir = tt.cwd(l)
			}
			branches := &fakeBranches{}
			svc := NewService(l.repo, &fakeLister{worktrees: []git.Worktree{l.main(), feature}}, branches, nil, currentDir)

			_, err := svc.Rename("feature", tt.newName)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			testutil.AssertPathExists(t, feature.Path)
			testutil.AssertPathExists(t, l.repo.AdminDir("feature"))
			assert.Empty(t, branches.calls)
		})
	}
}

func TestRename_CurrentCheckedBeforeDetached(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	feature.Current = true
	feature.Branch = git.BranchDetached
	svc := newTestService(l, []git.Worktree{l.main(), feature}, &fakeBranches{})

	_, err := svc.Rename("feature", "renamed")

	assert.ErrorIs(t, err, errors.ErrCannotRenameCurrent)
}

func TestRename_NotFoundAndMain(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	svc := newTestService(l, []git.Worktree{l.main(), feature}, &fakeBranches{})

	_, err := svc.Rename("missing", "renamed")
	assert.ErrorIs(t, err, errors.ErrWorktreeNotFound)

	_, err = svc.Rename("proj", "renamed")
	assert.ErrorIs(t, err, errors.ErrMainWorktree)
}

func TestRename_ListFailure(t *testing.T) {
	l := newLayout(t)
	svc := NewService(l.repo, &fakeLister{err: errors.GitOperation("worktree list", errors.New("boom"))}, &fakeBranches{}, nil, "")

	_, err := svc.Rename("feature", "renamed")

	assert.True(t, errors.IsCode(err, errors.CodeGitOperation))
}

func TestRename_PartialFailure(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	require.NoError(t, os.RemoveAll(l.repo.AdminDir("feature")))
	branches := &fakeBranches{}
	svc := newTestService(l, []git.Worktree{l.main(), feature}, branches)

	_, err := svc.Rename("feature", "renamed")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrPartialRename)
	assert.Equal(t, errors.KindPartialFailure, errors.GetKind(err))

	ctx := errors.GetErrorContext(err)
	assert.Equal(t, StepRelocateMetadata, ctx["step"])
	assert.Equal(t, []string{StepMoveDirectory}, ctx["completed"])

	// The directory move is not undone.
	testutil.AssertPathExists(t, filepath.Join(l.dir, "renamed"))
	testutil.AssertPathMissing(t, feature.Path)
	assert.Empty(t, branches.calls)
}

func TestRename_MoveFailureChangesNothing(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	svc := newTestService(l, []git.Worktree{l.main(), feature}, &fakeBranches{})

	plan, err := svc.Plan("feature", "renamed")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(feature.Path))

	_, err = svc.Execute(plan)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFileSystem))
	testutil.AssertPathExists(t, l.repo.AdminDir("feature"))
}

func TestPlan_FallsBackToDefaultAdminDir(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	require.NoError(t, os.Remove(filepath.Join(feature.Path, ".git")))
	svc := newTestService(l, []git.Worktree{l.main(), feature}, &fakeBranches{})

	plan, err := svc.Plan("feature", "renamed")

	require.NoError(t, err)
	assert.Equal(t, l.repo.AdminDir("feature"), plan.OldAdminDir)
	assert.Equal(t, l.repo.AdminDir("renamed"), plan.NewAdminDir)
}

func TestPlan_KeepsSuffixedAdminDirParent(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	// Git suffixes the metadata directory when the name was taken.
	suffixed := l.repo.AdminDir("feature1")
	require.NoError(t, os.Rename(l.repo.AdminDir("feature"), suffixed))
	testutil.WriteFile(t, filepath.Join(feature.Path, ".git"), "gitdir: "+filepath.ToSlash(suffixed)+"\n")
	svc := newTestService(l, []git.Worktree{l.main(), feature}, &fakeBranches{})

	plan, err := svc.Plan("feature", "renamed")

	require.NoError(t, err)
	assert.Equal(t, suffixed, plan.OldAdminDir)
	assert.Equal(t, l.repo.AdminDir("renamed"), plan.NewAdminDir)
}

func TestRename_RecordsSteps(t *testing.T) {
	l := newLayout(t)
	feature := l.addWorktree(t, "feature", "feature")
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewService(l.repo, &fakeLister{worktrees: []git.Worktree{l.main(), feature}},
		&fakeBranches{}, logger.NewOpLogForTest(zap.New(core)), "")

	_, err := svc.Rename("feature", "renamed")
	require.NoError(t, err)

	var steps []string
	for _, entry := range logs.FilterMessage("step").All() {
		steps = append(steps, entry.ContextMap()["step"].(string))
	}
	assert.Equal(t, []string{
		StepMoveDirectory,
		StepRelocateMetadata,
		StepRewriteBackRef,
		StepRewriteForwardRef,
		StepRenameBranch,
	}, steps)
	assert.Equal(t, 1, logs.FilterMessage("done").Len())
}
