package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/profile"
)

func init() { //nolint: gochecknoinits
	roleCmd.AddCommand(roleGrantCmd, roleShowCmd)
	rootCmd.AddCommand(roleCmd)
}

var (
	roleCmd = &cobra.Command{
		Use:               "role",
		Short:             "Inspect and grant application roles",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return loadConfig() },
	}

	roleGrantCmd = &cobra.Command{
		Use:   "grant <username> <app> <role>",
		Short: "Assign a role without an access request, superadmin included",
		Args:  cobra.ExactArgs(3), //nolint:mnd
		RunE: withDB(func(ctx context.Context, out io.Writer, db *gorm.DB, args []string) error {
			return roleGrant(ctx, out, db, args[0], args[1], args[2])
		}),
	}

	roleShowCmd = &cobra.Command{
		Use:   "show <username>",
		Short: "List the roles of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(ctx context.Context, out io.Writer, db *gorm.DB, args []string) error {
			return roleShow(ctx, out, db, args[0])
		}),
	}
)

func roleGrant(ctx context.Context, out io.Writer, db *gorm.DB, username, app, roleName string) error {
	p, err := profile.GetByUsername(ctx, db, username)
	if err != nil {
		return fmt.Errorf("%s: %w", username, err)
	}

	r, err := access.New(db, nil).Grant(ctx, p.ID, app, roleName)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s is %s in %s\n", p.Username, r, app)

	return err
}

func roleShow(ctx context.Context, out io.Writer, db *gorm.DB, username string) error {
	p, err := profile.GetByUsername(ctx, db, username)
	if err != nil {
		return fmt.Errorf("%s: %w", username, err)
	}

	roles, err := access.New(db, nil).Roles(ctx, p.ID)
	if err != nil {
		return err
	}

	if len(roles) == 0 {
		_, err = fmt.Fprintf(out, "%s has no roles\n", p.Username)

		return err
	}

	for _, ra := range roles {
		if _, err = fmt.Fprintf(out, "%s\t%s\t%s\n", ra.App, ra.Role, ra.GrantedBy); err != nil {
			return err
		}
	}

	return nil
}
