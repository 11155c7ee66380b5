package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// adminCmd edits the admin set out of band. The first admin can only be
// created this way.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin set",
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant <uid>",
	Short: "Grant admin rights to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd.Context(), func(be *backend) error {
			if err := be.admins.Grant(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s\n", args[0])
			return nil
		})
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke <uid>",
	Short: "Revoke admin rights from a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd.Context(), func(be *backend) error {
			if err := be.admins.Revoke(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
			return nil
		})
	},
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admins",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd.Context(), func(be *backend) error {
			admins, err := be.admins.ListAdmins(cmd.Context())
			if err != nil {
				return err
			}
			if len(admins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No admins found.")
			}
			for _, a := range admins {
				fmt.Fprintln(cmd.OutOrStdout(), a.UID)
			}
			return nil
		})
	},
}

func withBackend(ctx context.Context, fn func(*backend) error) error {
	be, err := openBackend(ctx, cfg, false, log)
	if err != nil {
		return err
	}
	defer be.close(context.Background())
	return fn(be)
}

func init() {
	adminCmd.AddCommand(adminGrantCmd, adminRevokeCmd, adminListCmd)
}
