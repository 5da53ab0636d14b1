package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipscribe/internal/clipfile"
	"clipscribe/internal/clips"
	"clipscribe/internal/links"
	"clipscribe/internal/textutil"
)

func newClipsCommand(ctx *commandContext) *cobra.Command {
	clipsCmd := &cobra.Command{
		Use:   "clips",
		Short: "Inspect and manage clip records",
	}

	clipsCmd.AddCommand(newClipsAddCommand(ctx))
	clipsCmd.AddCommand(newClipsImportCommand(ctx))
	clipsCmd.AddCommand(newClipsListCommand(ctx))
	clipsCmd.AddCommand(newClipsStatusCommand(ctx))
	clipsCmd.AddCommand(newClipsShowCommand(ctx))
	clipsCmd.AddCommand(newClipsRetryCommand(ctx))
	clipsCmd.AddCommand(newClipsRemoveCommand(ctx))
	clipsCmd.AddCommand(newClipsExportCommand(ctx))

	return clipsCmd
}

func newClipsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>...",
		Short: "Add clip links as pending records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *clips.Store) error {
				cfg, _ := ctx.ensureConfig()
				normalizer := links.NewNormalizer(cfg.Links.Aliases)
				out := cmd.OutOrStdout()
				for _, arg := range args {
					clip, err := store.Add(cmd.Context(), normalizer.Normalize(strings.TrimSpace(arg)))
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Added clip %d: %s\n", clip.ID, clip.URL)
				}
				return nil
			})
		},
	}
}

func newClipsImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add clip links from a text, JSON, YAML, or xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := clipfile.ReadURLs(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *clips.Store) error {
				cfg, _ := ctx.ensureConfig()
				normalizer := links.NewNormalizer(cfg.Links.Aliases)
				for i, url := range urls {
					urls[i] = normalizer.Normalize(url)
				}
				inserted, err := store.AddMany(cmd.Context(), urls)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d clips from %s\n", inserted, args[0])
				return nil
			})
		},
	}
}

func newClipsListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clip records",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]clips.Status, 0, len(statusFlags))
			for _, value := range statusFlags {
				status, ok := clips.ParseStatus(value)
				if !ok {
					return fmt.Errorf("unknown status %q (want pending, failed, or done)", value)
				}
				statuses = append(statuses, status)
			}
			return ctx.withStore(func(store *clips.Store) error {
				list, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "No clips found")
					return nil
				}
				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(list))
				for _, clip := range list {
					rows = append(rows, []string{
						strconv.FormatInt(clip.ID, 10),
						clipStatusLabel(clip.Status(), colorize),
						textutil.Truncate(clip.URL, 72),
						clip.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				spec := tableSpec{
					headers: []string{"ID", "Status", "URL", "Updated"},
					aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				}
				fmt.Fprintln(out, spec.render(rows))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Filter by status (pending, failed, done); repeatable")
	return cmd
}

func newClipsStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show clip counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *clips.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{string(clips.StatusPending), strconv.Itoa(stats.Pending)},
					{string(clips.StatusFailed), strconv.Itoa(stats.Failed)},
					{string(clips.StatusCompleted), strconv.Itoa(stats.Completed)},
				}
				spec := tableSpec{
					headers: []string{"Status", "Clips"},
					aligns:  []columnAlignment{alignLeft, alignRight},
					footer:  []string{"total", strconv.Itoa(stats.Total)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), spec.render(rows))
				return nil
			})
		},
	}
}

func newClipsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one clip record with its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClipID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *clips.Store) error {
				clip, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:         %d\n", clip.ID)
				fmt.Fprintf(out, "URL:        %s\n", clip.URL)
				fmt.Fprintf(out, "Status:     %s\n", clipStatusLabel(clip.Status(), shouldColorize(out)))
				fmt.Fprintf(out, "Failed:     %s\n", yesNo(clip.Failed))
				if clip.LastError != "" {
					fmt.Fprintf(out, "Last error: %s\n", clip.LastError)
				}
				fmt.Fprintf(out, "Created:    %s\n", clip.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Updated:    %s\n", clip.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				if clip.Transcription != nil {
					fmt.Fprintln(out, "Transcript:")
					fmt.Fprintln(out, *clip.Transcription)
				}
				return nil
			})
		},
	}
}

func newClipsRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id...]",
		Short: "Clear the failed flag so clips are transcribed on the next run",
		Long:  "Clears the failed flag on the given clips, or on every failed clip when no ids are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseClipID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return ctx.withStore(func(store *clips.Store) error {
				cleared, err := store.ClearFailed(cmd.Context(), ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared failed flag on %d clips\n", cleared)
				return nil
			})
		},
	}
}

func newClipsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Delete clip records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseClipID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return ctx.withStore(func(store *clips.Store) error {
				removed, err := store.RemoveIDs(cmd.Context(), ids)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d clips\n", removed)
				return nil
			})
		},
	}
}

func newClipsExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export completed transcripts as JSON, YAML, or xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := exportFormat(formatFlag, outputPath)
			if err != nil {
				return err
			}
			if format == clipfile.FormatXLSX && outputPath == "" {
				return errors.New("xlsx export requires --output")
			}
			return ctx.withStore(func(store *clips.Store) error {
				list, err := store.List(cmd.Context(), clips.StatusCompleted)
				if err != nil {
					return err
				}
				records := clipfile.FromClips(list)
				if outputPath == "" {
					return clipfile.Write(cmd.OutOrStdout(), format, records)
				}
				if err := clipfile.WriteFile(outputPath, format, records); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transcripts to %s\n", len(records), outputPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: json, yaml, or xlsx (default from --output extension, else json)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func exportFormat(flag, output string) (clipfile.Format, error) {
	if strings.TrimSpace(flag) != "" {
		return clipfile.ParseFormat(flag)
	}
	if output != "" {
		if format, err := clipfile.FormatForPath(output); err == nil {
			return format, nil
		}
	}
	return clipfile.FormatJSON, nil
}

func parseClipID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid clip id %q", value)
	}
	return id, nil
}
