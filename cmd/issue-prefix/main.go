package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wahlandcase/issue-prefix/internal/annotate"
	"github.com/wahlandcase/issue-prefix/internal/config"
	"github.com/wahlandcase/issue-prefix/internal/git"
	"github.com/wahlandcase/issue-prefix/internal/logging"
	"github.com/wahlandcase/issue-prefix/internal/ui"
)

// streams are the process's terminal handles, swapped out in tests
type streams struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

type rootOptions struct {
	configPath string
	verbose    bool

	template    string
	insertAfter string
	pattern     string
	defaultText string
	branch      string
	backend     string
	dryRun      bool
}

func main() {
	s := streams{
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(s).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "issue-prefix:", err)
		os.Exit(1)
	}
}

func newRootCmd(s streams) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "issue-prefix <commit_msg_filepath>",
		Short: "Prefix commit messages with the issue key from the current branch",
		Long: `Reads the current branch name, extracts an issue key such as ABC-123 and
inserts it into the commit message file unless the subject already mentions it.
Meant to run as a prepare-commit-msg or commit-msg hook.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, s, opts, args[0])
		},
	}
	rootCmd.SetIn(s.in)
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.errOut)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: <user config dir>/issue-prefix.toml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging on stderr")

	f := rootCmd.Flags()
	f.StringVarP(&opts.template, "template", "t", config.DefaultTemplate, "Template to render the issue key into")
	f.StringVarP(&opts.insertAfter, "insert-after", "i", config.DefaultInsertAfter, "Regex pattern describing the text after which to insert the issue key")
	f.StringVarP(&opts.pattern, "pattern", "p", config.DefaultPattern, "Regex pattern describing the issue key")
	f.StringVarP(&opts.defaultText, "default", "d", "", "Default prefix if no issue is found")
	f.StringVar(&opts.branch, "branch", "", "Use this branch name instead of asking git")
	f.StringVar(&opts.backend, "git-backend", config.BackendCLI, "How to read the branch: cli or go-git")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print the resulting message without writing it")

	rootCmd.AddCommand(newInstallCmd(s, opts), newConfigCmd(s, opts))
	return rootCmd
}

// loadConfig reads the config file and applies any flags set on the command line
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("template") {
		cfg.Message.Template = opts.template
	}
	if flags.Changed("insert-after") {
		cfg.Message.InsertAfter = opts.insertAfter
	}
	if flags.Changed("pattern") {
		cfg.Issue.Pattern = opts.pattern
	}
	if flags.Changed("default") {
		cfg.Message.Default = opts.defaultText
	}
	if flags.Changed("git-backend") {
		cfg.Branch.Backend = opts.backend
	}

	if err := cfg.Compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func branchReader(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) git.BranchReader {
	if cmd.Flags().Changed("branch") {
		return git.StaticBranchReader(opts.branch)
	}
	if cfg.Branch.Backend == config.BackendGoGit {
		return git.NewRepoBranchReader("")
	}
	return git.NewCLIBranchReader("")
}

func runHook(cmd *cobra.Command, s streams, opts *rootOptions, path string) error {
	log := logging.New(s.errOut, opts.verbose)
	defer log.Sync()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	a := annotate.New(cfg, branchReader(cmd, cfg, opts),
		annotate.WithLogger(log),
		annotate.WithDryRun(opts.dryRun),
	)

	res, err := a.Run(cmd.Context(), path)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(s.out)
	if res.BranchErr != nil {
		p.Warning(res.BranchErr.Error())
	}
	if opts.dryRun {
		p.Preview(res)
		return nil
	}
	p.Result(res)
	return nil
}

func newInstallCmd(s streams, root *rootOptions) *cobra.Command {
	var (
		repoPath   string
		executable string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "install [-- hook flags...]",
		Short: "Install the prepare-commit-msg hook into a repository",
		Example: `  issue-prefix install
  issue-prefix install -- --default "NO-ISSUE" --template "{}:"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(s.errOut, root.verbose)
			defer log.Sync()

			installOpts := git.InstallOptions{Executable: executable, Args: args, Force: force}
			path, err := git.InstallHook(repoPath, installOpts)

			var exists *git.HookExistsError
			if errors.As(err, &exists) {
				if !s.interactive {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				ok, promptErr := ui.Confirm("Overwrite existing "+exists.Path+"?", s.in, s.out)
				if promptErr != nil {
					return promptErr
				}
				if !ok {
					return err
				}
				installOpts.Force = true
				path, err = git.InstallHook(repoPath, installOpts)
			}
			if err != nil {
				return err
			}

			log.Debug("hook installed", zap.String("path", path), zap.Strings("args", args))
			ui.NewPrinter(s.out).Installed(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoPath, "repo", "C", ".", "Path inside the target repository")
	cmd.Flags().StringVar(&executable, "executable", "issue-prefix", "Command the hook runs")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing hook")
	return cmd
}

func newConfigCmd(s streams, root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Compile(); err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = s.out.Write(data)
			return err
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintln(s.out, path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
