package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipscribe/internal/clips"
	"clipscribe/internal/notifications"
	"clipscribe/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, tools, the whisper model, and the clip store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, "Configuration:")
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, ctx.configPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Store", statusInfo, cfg.Store.Path, colorize))
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(out, renderStatusLine("Notifications", statusWarn, "ntfy_topic not set", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Notifications", statusOK, cfg.Notifications.NtfyTopic, colorize))
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Preflight:")
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if store, err := clips.Open(cfg); err == nil {
				stats, statsErr := store.Stats(cmd.Context())
				store.Close()
				if statsErr == nil {
					fmt.Fprintln(out, renderStatusLine("Clips", statusInfo,
						fmt.Sprintf("%d pending, %d failed, %d completed", stats.Pending, stats.Failed, stats.Completed), colorize))
				}
			}

			if notify {
				fmt.Fprintln(out)
				notifier := notifications.NewService(cfg)
				if cfg.Notifications.NtfyTopic == "" {
					fmt.Fprintln(out, "Notification not sent: ntfy_topic not set")
				} else if err := notifier.Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
					return fmt.Errorf("send test notification: %w", err)
				} else {
					fmt.Fprintln(out, "Test notification sent")
				}
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, result := range failed {
					names = append(names, result.Name)
				}
				return errors.New("preflight failed: " + strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "Also send a test notification")
	return cmd
}
