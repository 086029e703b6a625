package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/arrayprism/internal/updater"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the arrayprism version (includes an update check)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "arrayprism v%s\n", version)
		if checker := newChecker(); checker != nil {
			latest, hasUpdate, err := checker.CheckLatestWithCache()
			if err == nil && hasUpdate {
				fmt.Fprintf(out, "\nUpdate available: v%s. Run 'arrayprism upgrade' to update (or re-run the install script).\n", latest)
			}
		}
		return nil
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade arrayprism to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		checker := updater.NewChecker(version, cfg.CacheDir(), cfg.UpdateCheckInterval)
		_, hasUpdate, err := checker.CheckLatest()
		if err != nil {
			fmt.Fprintln(out, updater.CurlFallbackMessage(err))
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if !hasUpdate {
			fmt.Fprintln(out, "Already up to date.")
			return nil
		}

		newVer, err := checker.Upgrade()
		if err != nil {
			return errors.New(updater.CurlFallbackMessage(err))
		}
		fmt.Fprintf(out, "Upgraded to v%s. Restart arrayprism to use the new version.\n", newVer)
		return nil
	},
}
