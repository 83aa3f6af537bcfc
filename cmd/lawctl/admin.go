package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/authutil"
	"github.com/advocatechambers/lawsite/internal/app/system/inputval"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/spf13/cobra"
)

// passwordEnv is read before falling back to stdin.
const passwordEnv = "LAWSITE_ADMIN_PASSWORD"

func adminCmd(a *app) *cobra.Command {
	command := &cobra.Command{
		Use:   "admin",
		Short: "admin credential commands",
	}
	command.AddCommand(setPasswordCmd(a))
	return command
}

func setPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-password <email>",
		Short: "Set the admin email and password (password from " + passwordEnv + " or stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := normalize.Email(args[0])
			if !inputval.IsValidEmail(email) {
				return fmt.Errorf("%q is not a valid email address", args[0])
			}
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := authutil.ValidatePassword(password); err != nil {
				return errors.New(authutil.PasswordRules())
			}
			hash, err := authutil.HashPassword(password)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, err := a.content(ctx)
			if err != nil {
				return err
			}
			before := svc.Version(models.SectionSettings)
			if err := svc.SetAdmin(ctx, email, hash); err != nil {
				return err
			}
			awaitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := svc.Await(awaitCtx, models.SectionSettings, before); err != nil {
				return fmt.Errorf("credentials written but not observed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin set to %s\n", email)
			return nil
		},
	}
}

// readPassword takes the password from the environment or the first line
// of in.
func readPassword(in io.Reader) (string, error) {
	if p := os.Getenv(passwordEnv); p != "" {
		return p, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("no password: set %s or pipe it on stdin", passwordEnv)
	}
	return line, nil
}
