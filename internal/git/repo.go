package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrDetachedHead is returned when HEAD points at a commit instead of a branch
var ErrDetachedHead = errors.New("HEAD is not a symbolic ref (detached HEAD)")

// BranchReader reports the short name of the currently checked-out branch
type BranchReader interface {
	CurrentBranch(ctx context.Context) (string, error)
}

// CLIBranchReader asks the git executable via `git symbolic-ref --short HEAD`
type CLIBranchReader struct {
	// Dir is the working directory for git ("" = current directory)
	Dir string
	// Binary overrides the git executable name (defaults to "git")
	Binary string
}

// NewCLIBranchReader creates a CLIBranchReader running in dir
func NewCLIBranchReader(dir string) *CLIBranchReader {
	return &CLIBranchReader{Dir: dir}
}

func (r *CLIBranchReader) CurrentBranch(ctx context.Context) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, "symbolic-ref", "--short", "HEAD")
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output := strings.TrimSpace(stderr.String())
			if output == "" {
				output = err.Error()
			}
			return "", &GitError{Command: "symbolic-ref", Output: output}
		}
		return "", fmt.Errorf("running %s: %w", bin, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// RepoBranchReader reads HEAD straight from the repository with go-git,
// without needing a git executable
type RepoBranchReader struct {
	// Path is any directory inside the working tree
	Path string
}

// NewRepoBranchReader creates a RepoBranchReader for the repository containing path
func NewRepoBranchReader(path string) *RepoBranchReader {
	return &RepoBranchReader{Path: path}
}

func (r *RepoBranchReader) CurrentBranch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := openRepo(r.Path)
	if err != nil {
		return "", err
	}

	// Unresolved, so an unborn branch still reports its name like symbolic-ref does
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", ErrDetachedHead
	}

	return head.Target().Short(), nil
}

// StaticBranchReader always returns the same branch name
type StaticBranchReader string

func (s StaticBranchReader) CurrentBranch(ctx context.Context) (string, error) {
	return string(s), nil
}

// openRepo opens the repository containing path, walking up to find .git
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		path = "."
	}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// IsGitRepo checks if path is inside a git repository
func IsGitRepo(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// GitError provides better context for git command failures
type GitError struct {
	Command string
	Output  string
}

func (e *GitError) Error() string {
	return "git " + e.Command + ": " + e.Output
}
