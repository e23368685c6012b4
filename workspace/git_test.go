package workspace

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	gitRun := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	gitRun("init", "-q", "-b", "feature")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"), []byte("<project/>\n"), 0o644))
	gitRun("add", "pom.xml")
	gitRun("commit", "-q", "-m", "initial")
	gitRun("branch", "develop")
	return dir
}

func TestGit_CurrentBranch(t *testing.T) {
	dir := initRepo(t)

	branch, err := (&Git{Dir: dir}).CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

func TestGit_AddWorktree(t *testing.T) {
	dir := initRepo(t)
	g := &Git{Dir: dir}

	wt, cleanup, err := g.AddWorktree(context.Background(), "develop")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(wt, "pom.xml"))
	require.NoError(t, err)

	require.NoError(t, cleanup())
	_, err = os.Stat(wt)
	assert.True(t, os.IsNotExist(err))
}

func TestGit_AddWorktreeUnknownRef(t *testing.T) {
	dir := initRepo(t)

	_, _, err := (&Git{Dir: dir}).AddWorktree(context.Background(), "no-such-branch")
	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr))
}

func TestGit_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())

	_, err := (&Git{Dir: t.TempDir()}).CurrentBranch(context.Background())
	assert.ErrorIs(t, err, ErrNotARepository)
}
