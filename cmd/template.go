package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/solbuild/solbuild/internal/msg"
)

var templateShortcuts = map[string]string{
	"gh:": "https://github.com/",
	"gl:": "https://gitlab.com/",
	"bb:": "https://bitbucket.org/",
	"sr:": "https://sr.ht/",
	"cb:": "https://codeberg.org/",
}

const gitPrefix = "git:"

var errIllegalTemplate = errors.New("empty or illegal template string")

// cloneTemplate materializes a starter repo into toWhere. Accepts a raw
// `git:` URL or a shortcut prefix, e.g. gh:someone/solidity-starter.
func cloneTemplate(template, toWhere string) error {
	if template == "" {
		return errIllegalTemplate
	}

	if stripped, ok := strings.CutPrefix(template, gitPrefix); ok {
		return cloneGitRepo(stripped, toWhere)
	}

	for shortcut, url := range templateShortcuts {
		if stripped, ok := strings.CutPrefix(template, shortcut); ok {
			return cloneGitRepo(url+stripped, toWhere)
		}
	}

	if strings.HasPrefix(template, "https://") || strings.HasPrefix(template, "http://") {
		return cloneGitRepo(template, toWhere)
	}

	return fmt.Errorf("template %q has no recognized prefix", template)
}

type gitURL struct {
	cleanURL    string
	branch      string
	commitOrTag string
}

// someone/something@master#0.1.0
// someone/something@feature-branch#12345abc
// someone/something#12345abc
func parseGitURL(rawURL string) (res gitURL) {
	parts := strings.SplitN(rawURL, "#", 2)
	baseURL := parts[0]
	if len(parts) == 2 {
		res.commitOrTag = parts[1]
	}

	parts = strings.SplitN(baseURL, "@", 2)
	res.cleanURL = parts[0]
	if len(parts) == 2 {
		res.branch = parts[1]
	}

	if !strings.HasSuffix(res.cleanURL, ".git") {
		res.cleanURL += ".git"
	}

	return
}

// cloneGitRepo clones a Git remote into the specified directory
func cloneGitRepo(url, toWhere string) error {
	parsedURL := parseGitURL(url)

	cloneOptions := &git.CloneOptions{
		URL:      parsedURL.cleanURL,
		Progress: &msg.IndentWriter{Indent: "  ", W: os.Stdout},
	}

	if parsedURL.commitOrTag == "" {
		cloneOptions.Depth = 1 // we can do a shallow clone of the latest commit
	}

	if parsedURL.branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(parsedURL.branch)
		cloneOptions.SingleBranch = true
	}

	repo, err := git.PlainClone(toWhere, cloneOptions)
	if err != nil {
		return err
	}

	if parsedURL.commitOrTag != "" {
		w, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("could not get worktree: %w", err)
		}

		revision := parsedURL.commitOrTag
		hash, err := repo.ResolveRevision(plumbing.Revision(revision))
		if err != nil {
			return fmt.Errorf("could not resolve revision `%s`: %w", revision, err)
		}

		err = w.Checkout(&git.CheckoutOptions{
			Hash:  *hash,
			Force: true,
		})
		if err != nil {
			return fmt.Errorf("failed to checkout `%s`: %w", revision, err)
		}
	}

	// the template's history is not ours
	return os.RemoveAll(toWhere + "/.git")
}
