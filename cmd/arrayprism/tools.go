package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CaptShanks/arrayprism/internal/formatter"
	"github.com/CaptShanks/arrayprism/internal/reconcile"
	"github.com/CaptShanks/arrayprism/internal/tool"
	"github.com/CaptShanks/arrayprism/internal/tui"
	"github.com/CaptShanks/arrayprism/internal/watch"
)

// printWidth wraps JWT explanations in non-interactive output
const printWidth = 100

var errNothingToSave = errors.New("nothing to save: the output is empty")

// stdinPiped reports whether stdin is a pipe or file rather than a terminal
var stdinPiped = func() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

type toolUsage struct {
	use     string
	args    int
	example string
}

var usages = map[tool.Kind]toolUsage{
	tool.Merge: {"merge [LEFT] [RIGHT]", 2, `  arrayprism merge "1,2,3" "[3,4]"
  arrayprism merge a.txt b.txt --dedup --output string
  arrayprism merge --left a.txt --right - < b.txt`},
	tool.Diff: {"diff [LEFT] [RIGHT]", 2, `  arrayprism diff old.json new.json --mode right
  arrayprism diff a.txt b.txt --mode both --watch`},
	tool.Convert: {"convert [FILE]", 1, `  arrayprism convert names.txt
  pbpaste | arrayprism convert --copy`},
	tool.URLs: {"urls [FILE]", 1, `  arrayprism urls links.txt
  arrayprism urls links.txt --param id --save=ids.txt`},
	tool.JWT: {"jwt [TOKEN|-]", 1, `  arrayprism jwt eyJhbGciOi...
  echo "$TOKEN" | arrayprism jwt`},
}

// toolOptions holds the flags of one tool command
type toolOptions struct {
	left        string
	right       string
	dedup       bool
	mode        string
	output      string
	param       string
	print       bool
	save        string
	copy        bool
	watch       bool
	interactive bool
}

func newToolCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(tool.All))
	for _, info := range tool.All {
		cmds = append(cmds, newToolCommand(info))
	}
	return cmds
}

func newToolCommand(info tool.Info) *cobra.Command {
	o := &toolOptions{}
	u := usages[info.Kind]
	cmd := &cobra.Command{
		Use:   u.use,
		Short: info.Description,
		Long: info.Title + ": " + info.Description + `.

Inputs are file paths when the file exists, - for stdin, and literal text
otherwise. With no input and an interactive terminal the tool screen opens.`,
		Example: u.example,
		Args:    cobra.MaximumNArgs(u.args),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, info, o, args)
		},
	}

	f := cmd.Flags()
	if info.TwoInputs {
		f.StringVar(&o.left, "left", "", "first array: file, - for stdin, or text")
		f.StringVar(&o.right, "right", "", "second array: file, - for stdin, or text")
		f.StringVarP(&o.output, "output", "o", "", "output format: auto, string or number")
	}
	switch info.Kind {
	case tool.Merge:
		f.BoolVarP(&o.dedup, "dedup", "d", false, "remove duplicate values")
	case tool.Diff:
		f.StringVarP(&o.mode, "mode", "m", "left", "left (only in first), right (only in second) or both")
	case tool.URLs:
		f.StringVar(&o.param, "param", "", "query parameter to extract (default sku)")
	}
	f.BoolVarP(&o.print, "print", "p", false, "force colored output even when piped")
	f.StringVarP(&o.save, "save", "s", "", "save the output, optionally as --save=NAME")
	f.Lookup("save").NoOptDefVal = info.DownloadName
	f.BoolVarP(&o.copy, "copy", "c", false, "copy the output to the clipboard")
	f.BoolVarP(&o.watch, "watch", "w", false, "re-run whenever an input file changes")
	f.BoolVarP(&o.interactive, "tui", "t", false, "open the interactive screen with the inputs loaded")
	return cmd
}

// sources returns the raw input arguments in order: flags first, then
// positional arguments fill the remaining slots. Piped stdin stands in for
// a missing first input.
func (o *toolOptions) sources(info tool.Info, args []string) ([]string, error) {
	slots := 1
	srcs := []string{o.left}
	if info.TwoInputs {
		slots = 2
		srcs = append(srcs, o.right)
	}
	for _, arg := range args {
		placed := false
		for i := range srcs {
			if srcs[i] == "" {
				srcs[i] = arg
				placed = true
				break
			}
		}
		if !placed {
			return nil, fmt.Errorf("%s takes at most %d inputs", info.Kind, slots)
		}
	}
	if srcs[0] == "" && !o.interactive && stdinPiped() {
		srcs[0] = "-"
	}

	stdinUses := 0
	for _, s := range srcs {
		if s == "-" {
			stdinUses++
		}
	}
	if stdinUses > 1 {
		return nil, errors.New("stdin can only be used for one input")
	}
	return srcs, nil
}

// readInput resolves one source: - reads stdin, an existing file is read,
// anything else is literal text.
func readInput(src string, stdin io.Reader) (string, error) {
	if src == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	if isFile(src) {
		data, err := os.ReadFile(src)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", src, err)
		}
		return string(data), nil
	}
	return src, nil
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func hasInput(srcs []string) bool {
	for _, s := range srcs {
		if s != "" {
			return true
		}
	}
	return false
}

// request reads the sources and combines them with the flags and config
func (o *toolOptions) request(info tool.Info, srcs []string, stdin io.Reader) (tool.Request, error) {
	req := defaultRequest()
	req.Dedup = o.dedup

	texts := make([]string, len(srcs))
	for i, src := range srcs {
		text, err := readInput(src, stdin)
		if err != nil {
			return req, err
		}
		texts[i] = text
	}
	req.Left = texts[0]
	if len(texts) > 1 {
		req.Right = texts[1]
	}

	if o.output != "" {
		out, err := formatter.ParseOutputMode(o.output)
		if err != nil {
			return req, err
		}
		req.Output = out
	}
	if info.Kind == tool.Diff {
		mode, err := reconcile.ParseMode(o.mode)
		if err != nil {
			return req, err
		}
		if mode == reconcile.ModeMerge || mode == reconcile.ModeMergeDedup {
			return req, fmt.Errorf("%w: %q is not a diff mode", reconcile.ErrUnknownMode, o.mode)
		}
		req.Mode = mode
	}
	if o.param != "" {
		req.Param = o.param
	}
	return req, nil
}

func runTool(cmd *cobra.Command, info tool.Info, o *toolOptions, args []string) error {
	srcs, err := o.sources(info, args)
	if err != nil {
		return err
	}
	req, err := o.request(info, srcs, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if o.interactive || !hasInput(srcs) {
		return runTUI(tui.Options{Start: info.Kind, Request: req})
	}
	if o.watch {
		return o.watchInputs(cmd, info, srcs)
	}

	res := runner.Run(info.Kind, req)
	if !res.OK() {
		return errors.New(res.Err)
	}
	if o.print {
		tui.EnableColor()
	}
	if err := tui.PrintResult(cmd.OutOrStdout(), info, res, printWidth); err != nil {
		return err
	}
	return o.deliver(cmd, info, res)
}

// deliver saves and copies the output as requested by the flags
func (o *toolOptions) deliver(cmd *cobra.Command, info tool.Info, res tool.Result) error {
	if o.save != "" {
		path, err := saveOutput(info.Kind, o.save, res.Output)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", path)
	}
	if o.copy {
		if res.Output == "" {
			return errors.New("nothing to copy: the output is empty")
		}
		if err := clipboard.WriteAll(res.Output); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
	}
	return nil
}

// saveOutput writes content to the saved outputs and prunes the oldest
func saveOutput(kind tool.Kind, name, content string) (string, error) {
	if content == "" {
		return "", errNothingToSave
	}
	path, err := store.Save(kind, name, content)
	if err != nil {
		return "", err
	}
	if removed, err := store.Cleanup(cfg.MaxSaved); err != nil {
		logger.Warn("failed to prune saved outputs", zap.Error(err))
	} else if removed > 0 {
		logger.Debug("pruned saved outputs", zap.Int("removed", removed))
	}
	return path, nil
}

// watchInputs prints the result, then prints what changed in the output
// every time one of the input files is written.
func (o *toolOptions) watchInputs(cmd *cobra.Command, info tool.Info, srcs []string) error {
	var paths []string
	for _, s := range srcs {
		switch {
		case s == "-":
			return errors.New("--watch cannot read from stdin")
		case isFile(s):
			paths = append(paths, s)
		}
	}
	if len(paths) == 0 {
		return errors.New("--watch needs at least one input file")
	}

	w, err := watch.New(paths, logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if o.print {
		tui.EnableColor()
	}
	run := func() tool.Result {
		req, err := o.request(info, srcs, nil)
		if err != nil {
			return tool.Result{Err: err.Error()}
		}
		return runner.Run(info.Kind, req)
	}

	prev := run()
	if err := tui.PrintResult(out, info, prev, printWidth); err != nil {
		return err
	}
	fmt.Fprintf(errOut, "Watching %s (ctrl+c to stop)\n", strings.Join(paths, ", "))

	return w.Run(ctx, func(changed []string) {
		res := run()
		stamp := time.Now().Format("15:04:05")
		logger.Debug("inputs changed", zap.Strings("files", changed))

		switch {
		case !res.OK():
			fmt.Fprintf(out, "\n[%s] Error: %s\n", stamp, res.Err)
		case !prev.OK():
			fmt.Fprintf(out, "\n[%s]\n", stamp)
			_ = tui.PrintResult(out, info, res, printWidth)
		default:
			changes := tui.RenderChanges(prev.Output, res.Output, 3)
			if changes == "" {
				fmt.Fprintf(out, "\n[%s] output unchanged\n", stamp)
			} else {
				fmt.Fprintf(out, "\n[%s] output changed\n%s\n", stamp, changes)
			}
		}
		prev = res
	})
}
