// Package gitinfo resolves best-effort git provenance for a content root.
// Builds log the commit a corpus was generated from; a root outside any
// work tree simply has no provenance.
package gitinfo

import (
	"errors"

	git "github.com/go-git/go-git/v5"
)

// ShortHashLength is the abbreviated commit hash length used in logs
const ShortHashLength = 7

// ErrNotRepository marks roots that are not inside a git work tree
var ErrNotRepository = errors.New("not a git repository")

// Info describes the git state of a content root
type Info struct {
	Commit string // abbreviated HEAD commit hash
	Branch string // branch name, empty when HEAD is detached
}

// Resolve walks upward from root looking for a work tree and reports its
// HEAD. Callers treat any failure as missing provenance, never as a build
// error.
func Resolve(root string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, err
	}

	info := &Info{
		Commit: head.Hash().String()[:ShortHashLength],
	}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	return info, nil
}
