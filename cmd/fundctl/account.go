package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/seedfund/internal/api"
	"github.com/mmynk/seedfund/internal/models"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			a.logger.Info("Logged in", "user_id", user.ID, "role", user.Role)
			fmt.Fprintln(cmd.OutOrStdout(), a.client.Token())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var req api.RegisterRequest
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = models.Role(role)
			user, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			a.logger.Info("Registered", "user_id", user.ID, "role", user.Role)
			fmt.Fprintln(cmd.OutOrStdout(), a.client.Token())
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "at least 8 characters")
	cmd.Flags().StringVar(&role, "role", string(models.RoleEntrepreneur), "entrepreneur or investor")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}
