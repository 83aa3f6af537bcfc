package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/bootstrap"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/spf13/cobra"
)

func seedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create collections and indexes, and seed default content and pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.database(ctx)
			if err != nil {
				return err
			}
			feed, err := a.contentFeed(ctx)
			if err != nil {
				return err
			}
			deps := bootstrap.DBDeps{MongoDatabase: db, ContentFeed: feed}
			if err := bootstrap.EnsureSchema(ctx, nil, a.cfg, deps, a.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seeded")
			return nil
		},
	}
}

func resetContentCmd(a *app) *cobra.Command {
	var yes bool
	command := &cobra.Command{
		Use:   "reset-content",
		Short: "Overwrite every content section with its default (admin credentials are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset-content overwrites all site content; pass --yes to confirm")
			}
			ctx := cmd.Context()
			svc, err := a.content(ctx)
			if err != nil {
				return err
			}
			if err := svc.ResetToDefaults(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "content reset to defaults")
			return nil
		},
	}
	command.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return command
}

func contentCmd(a *app) *cobra.Command {
	command := &cobra.Command{
		Use:   "content",
		Short: "content commands",
	}
	command.AddCommand(contentShowCmd(a))
	return command
}

func contentShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "show [section]",
		Short:     "Print stored content as JSON (all sections when none is named)",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: sectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			feed, err := a.contentFeed(ctx)
			if err != nil {
				return err
			}

			sections := models.AllSections()
			if len(args) == 1 {
				sec, err := models.ParseSection(args[0])
				if err != nil {
					return err
				}
				sections = []models.Section{sec}
			}

			out := make(map[string]any, len(sections))
			for _, sec := range sections {
				snap, err := feed.Get(ctx, sec.Key())
				if err != nil {
					return fmt.Errorf("read %s: %w", sec, err)
				}
				value := models.DefaultSection(sec)
				if snap.Exists {
					if err := snap.Decode(value); err != nil {
						return fmt.Errorf("decode %s: %w", sec, err)
					}
				}
				out[sec.String()] = redact(value)
			}

			if len(args) == 1 {
				return writeJSON(cmd.OutOrStdout(), out[sections[0].String()])
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

// redact hides the admin password hash.
func redact(value any) any {
	s, ok := value.(*models.SettingsContent)
	if !ok || s.AdminPassword == "" {
		return value
	}
	c := *s
	c.AdminPassword = "(set)"
	return &c
}

func sectionNames() []string {
	secs := models.AllSections()
	out := make([]string, len(secs))
	for i, s := range secs {
		out[i] = s.String()
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
