package qcd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/qcd/internal/version"
	"github.com/arthur-debert/qcd/pkg/commands"
	"github.com/arthur-debert/qcd/pkg/config"
	"github.com/arthur-debert/qcd/pkg/datastore"
	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/logging"
	"github.com/arthur-debert/qcd/pkg/output"
	"github.com/arthur-debert/qcd/pkg/paths"
	"github.com/arthur-debert/qcd/pkg/shell"
)

// actionFlags select what qcd does. At most one of them, or a positional
// ENTRY, may be given.
var actionFlags = []string{
	"pop", "swap", "drop", "stack", "push", "echo",
	"add", "add-current", "remove", "list", "query", "set-alias", "set-index",
	"pid", "init", "guide", "print-config",
}

// app holds the parsed flags and the output stream of one invocation.
type app struct {
	stdout   io.Writer
	exitCode int

	verbosity  int
	configFile string

	noPush    bool
	pop       bool
	swap      bool
	drop      bool
	listStack bool
	push      bool
	echo      string

	add        string
	addCurrent bool
	index      int
	alias      string
	remove     string
	list       bool
	query      string
	setAlias   int
	setIndex   int

	pid         bool
	initShell   string
	guide       bool
	printConfig bool
}

// NewRootCmd creates the qcd command writing to the process streams. The
// completion and man page generators use it for the flag set.
func NewRootCmd() *cobra.Command {
	return newApp(os.Stdout).rootCmd()
}

// Execute runs qcd with args and returns the process exit code. Errors are
// printed on stdout so the shell wrapper shows them, logs go to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout)
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		// Only argument parsing fails here, everything else is reported by run.
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			err = errors.Wrap(err, errors.ErrInvalidInput, MsgErrArguments)
		}
		return a.fail(output.NewRenderer(stdout, output.FormatAuto), err)
	}
	return a.exitCode
}

func newApp(stdout io.Writer) *app {
	return &app{stdout: stdout, exitCode: errors.ExitSuccess}
}

func (a *app) rootCmd() *cobra.Command {
	initTemplateFormatting()

	cmd := &cobra.Command{
		Use:     MsgRootUse,
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a.exitCode = a.run(cmd, args)
			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	cmd.SetVersionTemplate(fmt.Sprintf(MsgVersionTemplate, version.Version, version.Commit, version.Date))
	cmd.SetUsageTemplate(MsgUsageTemplate)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrInvalidInput, MsgErrArguments)
	})

	f := cmd.Flags()
	f.SortFlags = false

	f.BoolVarP(&a.noPush, "no-push", "n", false, MsgFlagNoPush)
	f.BoolVarP(&a.pop, "pop", "o", false, MsgFlagPop)
	f.BoolVarP(&a.swap, "swap", "w", false, MsgFlagSwap)
	f.BoolVarP(&a.drop, "drop", "d", false, MsgFlagDrop)
	f.BoolVarP(&a.listStack, "stack", "c", false, MsgFlagStack)
	f.BoolVarP(&a.push, "push", "u", false, MsgFlagPush)
	f.StringVarP(&a.echo, "echo", "e", "", MsgFlagEcho)

	f.StringVarP(&a.add, "add", "a", "", MsgFlagAdd)
	f.BoolVarP(&a.addCurrent, "add-current", "p", false, MsgFlagAddCurrent)
	f.IntVarP(&a.index, "index", "i", 0, MsgFlagIndex)
	f.StringVarP(&a.alias, "alias", "s", "", MsgFlagAlias)
	f.StringVarP(&a.remove, "remove", "r", "", MsgFlagRemove)
	f.BoolVarP(&a.list, "list", "l", false, MsgFlagList)
	f.StringVarP(&a.query, "query", "q", "", MsgFlagQuery)
	f.IntVarP(&a.setAlias, "set-alias", "b", 0, MsgFlagSetAlias)
	f.IntVarP(&a.setIndex, "set-index", "x", 0, MsgFlagSetIndex)

	f.BoolVar(&a.pid, "pid", false, MsgFlagPID)
	f.StringVar(&a.initShell, "init", "", MsgFlagInit)
	f.BoolVar(&a.guide, "guide", false, MsgFlagGuide)
	f.BoolVar(&a.printConfig, "print-config", false, MsgFlagPrintConfig)
	f.StringVar(&a.configFile, "config", "", MsgFlagConfig)
	f.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)

	cmd.MarkFlagsMutuallyExclusive(actionFlags...)
	_ = cmd.MarkFlagFilename("add")
	_ = cmd.MarkFlagFilename("query")
	_ = cmd.MarkFlagFilename("config", "toml")
	_ = cmd.RegisterFlagCompletionFunc("init", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return shell.Supported(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// run executes one invocation and returns its exit code.
func (a *app) run(cmd *cobra.Command, args []string) int {
	logging.LogCommand(cmd.Name(), args)
	ctx := cmd.Context()

	// These need neither configuration nor the database.
	switch {
	case a.guide:
		r := output.NewRenderer(a.stdout, output.FormatAuto)
		fmt.Fprint(a.stdout, r.Markdown().Render(MsgGuide))
		return errors.ExitSuccess
	case a.initShell != "":
		name := a.initShell
		if name == "auto" {
			name = shell.Detect()
		}
		script, err := shell.Script(name, shell.Options{})
		if err != nil {
			return a.fail(output.NewRenderer(a.stdout, output.FormatText), err)
		}
		fmt.Fprint(a.stdout, script)
		return errors.ExitSuccess
	case a.pid:
		fmt.Fprintln(a.stdout, commands.SessionID(os.Getenv(config.EnvSessionID), a.minSessionIDLength()))
		return errors.ExitSuccess
	}

	cfg, err := config.Load(config.LoadOptions{ConfigFile: paths.ExpandHome(a.configFile)})
	if err != nil {
		return a.fail(output.NewRenderer(a.stdout, output.FormatAuto), err)
	}
	renderer, err := a.renderer(cfg)
	if err != nil {
		return a.fail(renderer, err)
	}

	switch {
	case a.printConfig:
		dump, err := cfg.TOML()
		if err != nil {
			return a.fail(renderer, err)
		}
		fmt.Fprint(a.stdout, dump)
		return errors.ExitSuccess
	}

	cmdType, opts, err := a.command(cmd.Flags(), args)
	if err != nil {
		return a.fail(renderer, err)
	}
	if cmdType == "" {
		_ = cmd.Help()
		return errors.ExitInfo
	}

	db, err := datastore.Open(ctx, datastore.Options{
		Path:        cfg.DatabasePath(),
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return a.fail(renderer, err)
	}
	defer func() { _ = db.Close() }()

	res, err := commands.NewService(cfg, db, renderer).Dispatch(ctx, cmdType, opts)
	if err != nil {
		return a.fail(renderer, err)
	}
	if res.Output != "" {
		fmt.Fprintln(a.stdout, res.Output)
	}
	return res.ExitCode()
}

// minSessionIDLength reads the configured minimum, falling back to the
// default when the configuration does not load.
func (a *app) minSessionIDLength() int {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: paths.ExpandHome(a.configFile)})
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring configuration for the session id")
		return config.DefaultMinSessionIDLength
	}
	return cfg.Stack.MinSessionIDLength
}

// renderer builds the output renderer from the output settings. On a style
// sheet error the returned renderer still works with the built-in styles.
func (a *app) renderer(cfg *config.Config) (*output.Renderer, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return output.NewRenderer(a.stdout, output.FormatAuto), errors.Wrap(err, errors.ErrConfigValid, "invalid output format")
	}
	if cfg.Output.NoColor {
		format = output.FormatText
	}
	r := output.NewRenderer(a.stdout, format)
	if cfg.Output.Styles != "" {
		if err := r.LoadStyles(paths.ExpandHome(cfg.Output.Styles)); err != nil {
			return r, err
		}
	}
	return r, nil
}

// command maps the parsed flags to a dispatcher command. An empty command
// type means nothing was asked for.
func (a *app) command(f *pflag.FlagSet, args []string) (commands.CommandType, commands.Options, error) {
	opts := commands.Options{NoPush: a.noPush, Alias: a.alias}
	if f.Changed("index") {
		idx := a.index
		opts.Index = &idx
	}

	var selected []commands.CommandType
	pick := func(on bool, t commands.CommandType) {
		if on {
			selected = append(selected, t)
		}
	}
	pick(len(args) == 1, commands.CommandChangeDir)
	pick(f.Changed("echo"), commands.CommandEcho)
	pick(a.pop, commands.CommandPop)
	pick(a.swap, commands.CommandSwap)
	pick(a.drop, commands.CommandDrop)
	pick(a.listStack, commands.CommandListStack)
	pick(a.push, commands.CommandPush)
	pick(f.Changed("add"), commands.CommandAdd)
	pick(a.addCurrent, commands.CommandAddCurrent)
	pick(f.Changed("remove"), commands.CommandRemove)
	pick(a.list, commands.CommandList)
	pick(f.Changed("query"), commands.CommandQuery)
	pick(f.Changed("set-alias"), commands.CommandSetAlias)
	pick(f.Changed("set-index"), commands.CommandSetIndex)

	if len(selected) > 1 {
		return "", opts, errors.New(errors.ErrInvalidInput, MsgErrOneAction)
	}

	var cmdType commands.CommandType
	if len(selected) == 1 {
		cmdType = selected[0]
	}

	switch cmdType {
	case commands.CommandAdd, commands.CommandAddCurrent, commands.CommandSetIndex:
	default:
		if opts.Index != nil {
			return "", opts, errors.New(errors.ErrInvalidInput, MsgErrIndexFlag)
		}
	}
	switch cmdType {
	case commands.CommandAdd, commands.CommandAddCurrent, commands.CommandSetAlias:
	default:
		if f.Changed("alias") {
			return "", opts, errors.New(errors.ErrInvalidInput, MsgErrAliasFlag)
		}
	}
	if a.noPush && cmdType != commands.CommandChangeDir {
		return "", opts, errors.New(errors.ErrInvalidInput, MsgErrNoPushFlag)
	}

	switch cmdType {
	case commands.CommandChangeDir:
		opts.Reference = args[0]
	case commands.CommandEcho:
		opts.Reference = a.echo
	case commands.CommandRemove:
		opts.Reference = a.remove
	case commands.CommandAdd:
		opts.Path = a.add
	case commands.CommandQuery:
		opts.Path = a.query
	case commands.CommandSetAlias:
		if !f.Changed("alias") {
			return "", opts, errors.New(errors.ErrInvalidInput, MsgErrSetAliasNeeds)
		}
		opts.Target = a.setAlias
	case commands.CommandSetIndex:
		if opts.Index == nil {
			return "", opts, errors.New(errors.ErrInvalidInput, MsgErrSetIndexNeeds)
		}
		opts.Target = a.setIndex
	}
	return cmdType, opts, nil
}

// fail prints err for the shell wrapper and returns its exit code.
func (a *app) fail(r *output.Renderer, err error) int {
	event := log.Debug()
	if errors.IsFatal(err) {
		event = log.Error()
	}
	event.Err(err).Str("code", string(errors.GetErrorCode(err))).Msg("Command failed")

	fmt.Fprintln(a.stdout, r.Error(err))
	return errors.ExitCode(err)
}
