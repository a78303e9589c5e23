package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/storage/filesystem"
)

// HookName is the git hook the annotator runs as
const HookName = "prepare-commit-msg"

// hookMarker identifies scripts written by InstallHook so they can be replaced safely
const hookMarker = "# installed by issue-prefix"

// HookExistsError indicates a foreign hook script is already in place
type HookExistsError struct {
	Path string
}

func (e *HookExistsError) Error() string {
	return "hook already exists: " + e.Path
}

// InstallOptions controls how the hook script is written
type InstallOptions struct {
	// Executable is the command the hook runs (defaults to "issue-prefix")
	Executable string
	// Args are appended after the commit message path
	Args []string
	// Force overwrites a hook that was not written by us
	Force bool
}

// HooksDir resolves the hooks directory for the repository containing path,
// honouring core.hooksPath
func HooksDir(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	cfg, err := repo.Config()
	if err != nil {
		return "", fmt.Errorf("reading repository config: %w", err)
	}

	if hooksPath := cfg.Raw.Section("core").Option("hooksPath"); hooksPath != "" {
		if filepath.IsAbs(hooksPath) {
			return hooksPath, nil
		}
		wt, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("core.hooksPath %q is relative but repository has no worktree: %w", hooksPath, err)
		}
		return filepath.Join(wt.Filesystem.Root(), hooksPath), nil
	}

	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", errors.New("repository is not backed by a filesystem")
	}
	return filepath.Join(storage.Filesystem().Root(), "hooks"), nil
}

// InstallHook writes the prepare-commit-msg script into the repository containing
// path and returns the script location
func InstallHook(path string, opts InstallOptions) (string, error) {
	dir, err := HooksDir(path)
	if err != nil {
		return "", err
	}
	hookPath := filepath.Join(dir, HookName)

	existing, err := os.ReadFile(hookPath)
	switch {
	case err == nil:
		if !opts.Force && !strings.Contains(string(existing), hookMarker) {
			return hookPath, &HookExistsError{Path: hookPath}
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("reading %s: %w", hookPath, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(hookPath, []byte(HookScript(opts)), 0755); err != nil {
		return "", fmt.Errorf("writing %s: %w", hookPath, err)
	}
	// WriteFile keeps the old mode when the file already existed
	if err := os.Chmod(hookPath, 0755); err != nil {
		return "", err
	}

	return hookPath, nil
}

// HookScript renders the shell script body for the hook
func HookScript(opts InstallOptions) string {
	exe := opts.Executable
	if exe == "" {
		exe = "issue-prefix"
	}

	parts := []string{shellQuote(exe), `"$1"`}
	for _, a := range opts.Args {
		parts = append(parts, shellQuote(a))
	}

	return "#!/bin/sh\n" + hookMarker + "\nexec " + strings.Join(parts, " ") + "\n"
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:@", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
