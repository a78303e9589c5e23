package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with an isolated config dir and no colours
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(streams{in: strings.NewReader(""), out: &out, errOut: &errOut})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeMsg(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readMsg(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func initRepo(t *testing.T, branch string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	require.NoError(t, repo.Storer.SetReference(head))
	return dir
}

func TestHookPrefixesMessage(t *testing.T) {
	path := writeMsg(t, "Fix bug\nDetails")

	out, _, err := execute(t, path, "--branch", "feature/abc-123-fix")
	require.NoError(t, err)

	assert.Equal(t, "[ABC-123] Fix bug\nDetails", readMsg(t, path))
	assert.Contains(t, out, "added [ABC-123] to commit message")
}

func TestHookFlags(t *testing.T) {
	path := writeMsg(t, "fix: crash\n")

	_, _, err := execute(t, path,
		"--branch", "team/PROJ-9",
		"-t", "{}:",
		"-i", `^\w+:`,
		"-p", `PROJ-[0-9]+`,
	)
	require.NoError(t, err)
	assert.Equal(t, "fix: PROJ-9: crash", readMsg(t, path))
}

func TestHookDefaultFallback(t *testing.T) {
	path := writeMsg(t, "Fix bug\n")

	_, _, err := execute(t, path, "--branch", "main", "--default", "WIP")
	require.NoError(t, err)
	assert.Equal(t, "WIP Fix bug", readMsg(t, path))
}

func TestHookNoOp(t *testing.T) {
	path := writeMsg(t, "Fix bug\n\n# Please enter the commit message\n")

	out, _, err := execute(t, path, "--branch", "main")
	require.NoError(t, err)
	assert.Equal(t, "Fix bug\n\n# Please enter the commit message\n", readMsg(t, path))
	assert.Empty(t, out)
}

func TestHookAlreadyPresentTwice(t *testing.T) {
	path := writeMsg(t, "Fix bug\n")

	_, _, err := execute(t, path, "--branch", "ABC-1")
	require.NoError(t, err)
	first := readMsg(t, path)

	_, _, err = execute(t, path, "--branch", "ABC-1")
	require.NoError(t, err)
	assert.Equal(t, first, readMsg(t, path))
}

func TestHookGoGitBackend(t *testing.T) {
	repo := initRepo(t, "feature/XY-77-thing")
	chdir(t, repo)
	path := writeMsg(t, "Thing\n")

	_, _, err := execute(t, path, "--git-backend", "go-git")
	require.NoError(t, err)
	assert.Equal(t, "[XY-77] Thing", readMsg(t, path))
}

func TestHookBranchLookupFailureIsNotFatal(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeMsg(t, "Thing\n")

	out, _, err := execute(t, path, "--git-backend", "go-git", "--default", "NOISSUE")
	require.NoError(t, err)
	assert.Contains(t, out, "⚠")
	assert.Equal(t, "NOISSUE Thing", readMsg(t, path))
}

func TestHookDryRun(t *testing.T) {
	path := writeMsg(t, "Fix\n")

	out, _, err := execute(t, path, "--branch", "ABC-2", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "Fix\n", readMsg(t, path))
	assert.Contains(t, out, "[ABC-2] Fix")
}

func TestHookConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[message]\ntemplate = \"<{}>\"\ndefault = \"X\"\n"), 0644))
	path := writeMsg(t, "Fix\n")

	_, _, err := execute(t, path, "--config", cfgPath, "--branch", "ABC-3")
	require.NoError(t, err)
	assert.Equal(t, "<ABC-3> Fix", readMsg(t, path))

	// flags win over the file
	path = writeMsg(t, "Fix\n")
	_, _, err = execute(t, path, "--config", cfgPath, "--branch", "ABC-3", "-t", "[{}]")
	require.NoError(t, err)
	assert.Equal(t, "[ABC-3] Fix", readMsg(t, path))
}

func TestHookErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
		want string
	}{
		{
			name: "missing file",
			args: func(t *testing.T) []string {
				return []string{filepath.Join(t.TempDir(), "missing"), "--branch", "ABC-1"}
			},
			want: "opening commit message",
		},
		{
			name: "bad pattern",
			args: func(t *testing.T) []string { return []string{writeMsg(t, "x"), "-p", "[a-"} },
			want: "invalid issue.pattern",
		},
		{
			name: "bad template",
			args: func(t *testing.T) []string { return []string{writeMsg(t, "x"), "-t", "no placeholder"} },
			want: "invalid message.template",
		},
		{
			name: "no path",
			args: func(t *testing.T) []string { return nil },
			want: "accepts 1 arg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args(t)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInstallCommand(t *testing.T) {
	repo := initRepo(t, "main")

	out, _, err := execute(t, "install", "-C", repo, "--", "--default", "WIP")
	require.NoError(t, err)

	hook := filepath.Join(repo, ".git", "hooks", "prepare-commit-msg")
	assert.Contains(t, out, hook)
	data, err := os.ReadFile(hook)
	require.NoError(t, err)
	assert.Contains(t, string(data), `exec issue-prefix "$1" --default WIP`)
}

func TestInstallCommandForeignHook(t *testing.T) {
	repo := initRepo(t, "main")
	hook := filepath.Join(repo, ".git", "hooks", "prepare-commit-msg")
	require.NoError(t, os.MkdirAll(filepath.Dir(hook), 0755))
	require.NoError(t, os.WriteFile(hook, []byte("#!/bin/sh\n"), 0755))

	_, _, err := execute(t, "install", "-C", repo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, _, err = execute(t, "install", "-C", repo, "--force")
	require.NoError(t, err)
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sub", "issue-prefix.toml")

	out, _, err := execute(t, "config", "init", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)

	_, _, err = execute(t, "config", "init", "--config", cfgPath)
	require.Error(t, err)

	out, _, err = execute(t, "config", "show", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[message]")
	assert.Contains(t, out, "[issue]")
	assert.Contains(t, out, "backend")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
