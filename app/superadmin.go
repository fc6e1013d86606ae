package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/profile"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/superadmin"
)

func init() { //nolint: gochecknoinits
	superAdminCmd.AddCommand(superAdminAddCmd, superAdminRemoveCmd, superAdminListCmd)
	rootCmd.AddCommand(superAdminCmd)
}

var (
	superAdminCmd = &cobra.Command{
		Use:               "superadmin",
		Short:             "Manage the super-admin flag of profiles",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return loadConfig() },
	}

	superAdminAddCmd = &cobra.Command{
		Use:   "add <username>",
		Short: "Allow a profile to use the console",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(ctx context.Context, out io.Writer, db *gorm.DB, args []string) error {
			return superAdminAdd(ctx, out, db, args[0])
		}),
	}

	superAdminRemoveCmd = &cobra.Command{
		Use:   "remove <username>",
		Short: "Revoke console access of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(ctx context.Context, out io.Writer, db *gorm.DB, args []string) error {
			return superAdminRemove(ctx, out, db, args[0])
		}),
	}

	superAdminListCmd = &cobra.Command{
		Use:   "list",
		Short: "List super-admins",
		Args:  cobra.NoArgs,
		RunE: withDB(func(ctx context.Context, out io.Writer, db *gorm.DB, _ []string) error {
			return superAdminList(ctx, out, db)
		}),
	}
)

// withDB opens the configured database for a subcommand.
func withDB(fn func(ctx context.Context, out io.Writer, db *gorm.DB, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := openDB(&cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		return fn(ctx, cmd.OutOrStdout(), db, args)
	}
}

func superAdminAdd(ctx context.Context, out io.Writer, db *gorm.DB, username string) error {
	p, err := profile.GetByUsername(ctx, db, username)
	if err != nil {
		return fmt.Errorf("%s: %w", username, err)
	}

	if err = superadmin.Add(ctx, db, p.ID, access.ActorCLI); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s (%s) is a super-admin\n", p.Username, p.ID)

	return err
}

func superAdminRemove(ctx context.Context, out io.Writer, db *gorm.DB, username string) error {
	p, err := profile.GetByUsername(ctx, db, username)
	if err != nil {
		return fmt.Errorf("%s: %w", username, err)
	}

	if err = superadmin.Remove(ctx, db, p.ID); err != nil {
		return fmt.Errorf("%s: %w", username, err)
	}

	_, err = fmt.Fprintf(out, "%s (%s) is no longer a super-admin\n", p.Username, p.ID)

	return err
}

func superAdminList(ctx context.Context, out io.Writer, db *gorm.DB) error {
	list, err := superadmin.List(ctx, db)
	if err != nil {
		return err
	}

	for _, sa := range list {
		name := "-"
		if p, errGet := profile.Get(ctx, db, sa.UserID); errGet == nil {
			name = p.Username
		}

		if _, err = fmt.Fprintf(out, "%s\t%s\t%s\n", sa.UserID, name, sa.AddedBy); err != nil {
			return err
		}
	}

	return nil
}
