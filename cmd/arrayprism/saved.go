package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/arrayprism/internal/history"
	"github.com/CaptShanks/arrayprism/internal/tool"
	"github.com/CaptShanks/arrayprism/internal/tui"
)

var (
	savedTool string
	clearYes  bool

	// pickEntry lets the user choose a saved output; replaced in tests
	pickEntry = tui.RunPicker
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List, view and clear saved outputs",
	Long: `Outputs saved with --save or ctrl+s are kept in ~/.arrayprism/saved/,
named YYYY-MM-DD_HH-MM-SS_<tool>_<name>.txt. The oldest are removed once
there are more than max_saved (default 100).`,
	Args: cobra.NoArgs,
	RunE: runSavedList,
}

var savedListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved outputs, newest first",
	Args:    cobra.NoArgs,
	RunE:    runSavedList,
}

var savedViewCmd = &cobra.Command{
	Use:   "view [#|FILE]",
	Short: "Print a saved output (interactive picker without an argument)",
	Long: `Prints a saved output. # is the index from 'arrayprism saved list'
(1 = most recent); FILE is the exact file name. Without an argument an
interactive picker opens.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSavedView,
}

var savedClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return clearSaved(cmd.InOrStdin(), cmd.OutOrStdout(), clearYes)
	},
}

func init() {
	for _, c := range []*cobra.Command{savedCmd, savedListCmd} {
		c.Flags().StringVar(&savedTool, "tool", "", "only show outputs of one tool (merge, diff, convert, urls, jwt)")
	}
	savedClearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	savedCmd.AddCommand(savedListCmd, savedViewCmd, savedClearCmd)
}

func toolFilter() (tool.Kind, error) {
	if savedTool == "" {
		return "", nil
	}
	kind := tool.Kind(strings.ToLower(savedTool))
	if _, ok := tool.Lookup(kind); !ok {
		return "", fmt.Errorf("unknown tool %q", savedTool)
	}
	return kind, nil
}

func runSavedList(cmd *cobra.Command, args []string) error {
	filter, err := toolFilter()
	if err != nil {
		return err
	}
	entries, err := store.List(filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No saved outputs in %s\n", store.Dir())
		if filter != "" {
			fmt.Fprintf(out, "(filtered by: %s)\n", filter)
		}
		return nil
	}

	fmt.Fprintf(out, "Saved outputs in %s:\n\n", store.Dir())
	fmt.Fprintf(out, "%3s  %-19s  %-8s  %-24s  %s\n", "#", "TIMESTAMP", "TOOL", "NAME", "AGE")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	now := time.Now()
	for i, e := range entries {
		fmt.Fprintf(out, "%3d  %s\n", i+1, history.FormatEntry(e, now))
	}
	fmt.Fprintf(out, "\nTotal: %d entries (max: %d)\n", len(entries), cfg.MaxSaved)
	fmt.Fprintln(out, "\nUse 'arrayprism saved view <#>' to print a specific entry")
	return nil
}

func runSavedView(cmd *cobra.Command, args []string) error {
	entries, err := store.List("")
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No saved outputs in %s\n", store.Dir())
		return nil
	}

	var entry history.Entry
	if len(args) == 0 {
		path, err := pickEntry(entries)
		if err != nil {
			return fmt.Errorf("failed to run picker: %w", err)
		}
		if path == "" {
			return nil // cancelled
		}
		entry, err = findEntry(entries, path)
		if err != nil {
			return err
		}
	} else {
		entry, err = findEntry(entries, args[0])
		if err != nil {
			return err
		}
	}

	content, err := store.Read(entry)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), content)
	return nil
}

// findEntry resolves a 1-based index, a file name or a full path
func findEntry(entries []history.Entry, ref string) (history.Entry, error) {
	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 {
			return history.Entry{}, errors.New("index must be 1 or greater")
		}
		if index > len(entries) {
			return history.Entry{}, fmt.Errorf("index %d out of range (only %d entries)", index, len(entries))
		}
		return entries[index-1], nil
	}
	for _, e := range entries {
		if e.Filename == ref || e.Path == ref {
			return e, nil
		}
	}
	return history.Entry{}, fmt.Errorf("no saved output named %q", ref)
}

func clearSaved(in io.Reader, out io.Writer, yes bool) error {
	entries, err := store.List("")
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No saved outputs to clear.")
		return nil
	}

	if !yes {
		fmt.Fprintf(out, "This will delete %d saved outputs from %s\n", len(entries), store.Dir())
		fmt.Fprint(out, "Are you sure? (y/N): ")
		answer, _ := bufio.NewReader(in).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	deleted, err := store.Clear()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d saved outputs.\n", deleted)
	return nil
}
