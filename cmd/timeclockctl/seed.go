package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"timeclock/internal/model"
	"timeclock/internal/service"
	"timeclock/internal/store"
)

func seedCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the first administrator account",
		Long: `Creates an administrator so the admin console can be reached on a fresh
database. Running it again with the same email is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			return seedAdmin(cmd.Context(), cmd.OutOrStdout(), st, email, password, name)
		},
	}
	cmd.Flags().StringVar(&email, "email", "admin@timeclock.local", "administrator email")
	cmd.Flags().StringVar(&password, "password", "", "administrator password (required)")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.MarkFlagRequired("password")
	return cmd
}

func seedAdmin(ctx context.Context, w io.Writer, st *store.Store, email, password, name string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	u, err := service.NewUserService(st.Users).Create(ctx, model.CreateUserRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Category: model.CategoryAdministrator,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		fmt.Fprintf(w, "%s %s already exists\n", color.New(color.FgYellow).Sprint("•"), email)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s created administrator %s (id %d)\n", color.New(color.FgGreen).Sprint("✓"), u.Email, u.ID)
	return nil
}
