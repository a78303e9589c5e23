// Package annotate inserts the issue identifier from the current branch name
// into a commit message file.
package annotate

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/wahlandcase/issue-prefix/internal/config"
	"github.com/wahlandcase/issue-prefix/internal/git"
	"github.com/wahlandcase/issue-prefix/internal/models"
)

// Annotator rewrites commit message files using a compiled config
type Annotator struct {
	cfg      *config.Config
	branches git.BranchReader
	log      *zap.Logger
	dryRun   bool
}

// Option customises an Annotator
type Option func(*Annotator)

// WithLogger sets the logger (defaults to a no-op logger)
func WithLogger(log *zap.Logger) Option {
	return func(a *Annotator) { a.log = log }
}

// WithDryRun computes the new message without writing the file
func WithDryRun(dryRun bool) Option {
	return func(a *Annotator) { a.dryRun = dryRun }
}

// New creates an Annotator. cfg must already be compiled.
func New(cfg *config.Config, branches git.BranchReader, opts ...Option) *Annotator {
	a := &Annotator{cfg: cfg, branches: branches, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run annotates the commit message at path.
// A failed branch lookup is reported in the result and otherwise ignored;
// file errors are returned.
func (a *Annotator) Run(ctx context.Context, path string) (models.AnnotateResult, error) {
	var res models.AnnotateResult

	branch, err := a.branches.CurrentBranch(ctx)
	if err != nil {
		a.log.Debug("branch lookup failed", zap.Error(err))
		res.BranchErr = err
		branch = ""
	}
	res.Branch = branch

	if issue, ok := git.ExtractIssue(branch, a.cfg.IssueRegex()); ok {
		res.Issue = strings.ToUpper(issue)
	}
	a.log.Debug("branch inspected", zap.String("branch", branch), zap.String("issue", res.Issue))

	flag := os.O_RDWR
	if a.dryRun {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return res, fmt.Errorf("opening commit message: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	msg := models.NewCommitMessage(string(data))

	res.Message, res.Token, res.Outcome = a.annotate(msg, res.Issue)
	a.log.Debug("commit message annotated",
		zap.String("outcome", res.Outcome.String()),
		zap.String("token", res.Token),
	)

	if a.dryRun {
		return res, nil
	}
	if err := rewrite(f, res.Message); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

// annotate decides what to insert and returns the new content, the token, and the outcome
func (a *Annotator) annotate(msg models.CommitMessage, issue string) (string, string, models.Outcome) {
	insertAfter := a.cfg.InsertAfterRegex()

	if issue != "" && !msg.SubjectContains(issue) {
		token := a.cfg.RenderTemplate(issue)
		return InsertToken(msg.Content, token, insertAfter), token, models.Inserted
	}
	if def := a.cfg.Message.Default; def != "" {
		return InsertToken(msg.Content, def, insertAfter), def, models.DefaultInserted
	}
	return msg.Content, "", models.Unchanged
}

// rewrite replaces the file contents with content
func rewrite(f *os.File, content string) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		return err
	}
	// Inserting strips whitespace, so the new message can be shorter than the old one
	return f.Truncate(int64(len(content)))
}

// InsertToken places token right after the first match of insertAfter in content.
// Without a match the token is prepended and content is left as-is.
func InsertToken(content, token string, insertAfter *regexp.Regexp) string {
	loc := insertAfter.FindStringIndex(content)
	if loc == nil {
		return strings.TrimSpace(token) + " " + content
	}

	// Empty parts are skipped so a zero-width match does not leave a leading space
	parts := make([]string, 0, 3)
	for _, s := range []string{content[loc[0]:loc[1]], token, content[loc[1]:]} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
