package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	inquirystore "github.com/advocatechambers/lawsite/internal/app/store/inquiries"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func inquiriesCmd(a *app) *cobra.Command {
	command := &cobra.Command{
		Use:   "inquiries",
		Short: "inquiry commands",
	}
	command.AddCommand(inquiriesListCmd(a))
	command.AddCommand(inquiriesAdvanceCmd(a))
	return command
}

func inquiriesListCmd(a *app) *cobra.Command {
	var (
		status string
		limit  int64
	)
	command := &cobra.Command{
		Use:   "list",
		Short: "List inquiries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := models.InquiryStatus(normalize.Keyword(status))
			if status != "" && !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			ctx := cmd.Context()
			db, err := a.database(ctx)
			if err != nil {
				return err
			}
			items, total, err := inquirystore.New(db).List(ctx, inquirystore.Filter{Status: st, Page: 1, Limit: limit})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tREFERENCE\tSTATUS\tNAME\tCATEGORY\tCREATED")
			for _, in := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					in.ID.Hex(), in.Reference, in.Status, in.FullName, in.Category, formatTime(in.CreatedAt))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(items), total)
			return nil
		},
	}
	command.Flags().StringVar(&status, "status", "", "filter by status: pending, responded or closed")
	command.Flags().Int64Var(&limit, "limit", 50, "maximum rows")
	return command
}

func inquiriesAdvanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Move an inquiry to its next status (pending, responded, closed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := primitive.ObjectIDFromHex(args[0])
			if err != nil {
				return fmt.Errorf("invalid inquiry id %q", args[0])
			}
			ctx := cmd.Context()
			db, err := a.database(ctx)
			if err != nil {
				return err
			}
			in, changed, err := inquirystore.New(db).Advance(ctx, id)
			if errors.Is(err, inquirystore.ErrNotFound) {
				return fmt.Errorf("inquiry %s not found", args[0])
			}
			if err != nil {
				return err
			}
			if !changed {
				return fmt.Errorf("inquiry %s is already %s", in.Reference, in.Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", in.Reference, in.Status)
			return nil
		},
	}
}
