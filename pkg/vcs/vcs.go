// Package vcs is the version-control boundary. The engine never touches git
// internals; it asks this capability for a working tree and hands back a
// commit message plus changed paths. The default implementation uses go-git.
package vcs

import (
	"context"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/arthur-debert/jtd/pkg/errors"
)

// VersionControl obtains working trees and pushes sync commits.
type VersionControl interface {
	// Clone checks out the repository at url (optionally at ref) into dir.
	Clone(ctx context.Context, url, ref, dir string) error

	// Commit stages the given repo-relative paths in dir and commits them
	// with the given message, returning the commit hash.
	Commit(ctx context.Context, dir, message string, paths []string) (string, error)

	// Push publishes dir's current branch to its origin.
	Push(ctx context.Context, dir string) error
}

// GoGit implements VersionControl with go-git.
type GoGit struct {
	// AuthorName and AuthorEmail sign sync commits. Defaults are used
	// when empty.
	AuthorName  string
	AuthorEmail string
}

// NewGoGit returns a VersionControl backed by go-git.
func NewGoGit() *GoGit {
	return &GoGit{}
}

func (g *GoGit) Clone(ctx context.Context, url, ref, dir string) error {
	opts := &git.CloneOptions{URL: url}
	if ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
		opts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return errors.Wrapf(err, errors.ErrVCSClone, "could not clone %s", url)
	}
	return nil
}

func (g *GoGit) Commit(_ context.Context, dir, message string, paths []string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrVCSCommit, "could not open repository %s", dir)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrVCSCommit, "could not open worktree")
	}

	for _, path := range paths {
		if _, err := worktree.Add(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrVCSCommit, "could not stage %s", path)
		}
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  g.authorName(),
			Email: g.authorEmail(),
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrVCSCommit, "could not commit")
	}
	return hash.String(), nil
}

func (g *GoGit) Push(ctx context.Context, dir string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrVCSPush, "could not open repository %s", dir)
	}

	if err := repo.PushContext(ctx, &git.PushOptions{}); err != nil {
		if err == git.NoErrAlreadyUpToDate {
			return nil
		}
		return errors.Wrap(err, errors.ErrVCSPush, "could not push")
	}
	return nil
}

func (g *GoGit) authorName() string {
	if g.AuthorName != "" {
		return g.AuthorName
	}
	return "jtd"
}

func (g *GoGit) authorEmail() string {
	if g.AuthorEmail != "" {
		return g.AuthorEmail
	}
	return "jtd@localhost"
}
