package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a work tree with a single commit and returns its path
// and full commit hash.
func initRepo(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	path := filepath.Join(dir, "intro.md")
	require.NoError(t, os.WriteFile(path, []byte("# Intro\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add("intro.md")
	require.NoError(t, err)

	hash, err := wt.Commit("add intro", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestResolve(t *testing.T) {
	dir, hash := initRepo(t)

	info, err := Resolve(dir)

	require.NoError(t, err)
	assert.Equal(t, hash[:ShortHashLength], info.Commit)
	assert.Equal(t, "master", info.Branch)
}

func TestResolve_Subdirectory(t *testing.T) {
	dir, hash := initRepo(t)

	sub := filepath.Join(dir, "guides")
	require.NoError(t, os.MkdirAll(sub, 0755))

	info, err := Resolve(sub)

	require.NoError(t, err)
	assert.Equal(t, hash[:ShortHashLength], info.Commit)
}

func TestResolve_NotARepository(t *testing.T) {
	info, err := Resolve(t.TempDir())

	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestResolve_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	info, err := Resolve(dir)

	assert.Nil(t, info)
	assert.Error(t, err)
}
