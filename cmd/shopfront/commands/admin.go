package commands

import (
	"fmt"

	"github.com/ncobase/shopfront/messaging/email"
	"github.com/ncobase/shopfront/service"
	"github.com/ncobase/shopfront/structs"
	"github.com/spf13/cobra"
)

// NewAdminCommand creates the admin management command
func NewAdminCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin account commands",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newAdminCreateCommand(configFile))
	return cmd
}

func newAdminCreateCommand(configFile *string) *cobra.Command {
	var req structs.CreateAdminRequest
	var role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, *configFile)
			if err != nil {
				return err
			}
			defer a.cleanup()

			svc := service.New(service.NewDeps(a.cfg, a.data, email.NewLogSender(a.logger), a.logger))
			req.Role = structs.Role(role)
			profile, err := svc.Admin.Create(ctx, &req)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with role %s (id %s)\n",
				profile.Email, profile.Role, profile.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "admin email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "admin password")
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "admin display name")
	cmd.Flags().StringVarP(&role, "role", "r", string(structs.RoleAdmin), "admin or superadmin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
