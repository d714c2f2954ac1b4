package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.connect(cmd.Context()); err != nil {
				return err
			}
			if err := database.Migrate(cmd.Context(), a.pool); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "schema is up to date")
			return nil
		},
	}
}

func newHousekeepingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "housekeeping",
		Short: "Delete expired sessions, old log entries and stale cache files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.Housekeeping(cmd.Context())
			fmt.Fprintf(a.out, "sessions: %d, logs: %d, cache files: %d, thumbnails: %d\n",
				result.Sessions, result.Logs, result.CacheFiles, result.Thumbnails)
			return err
		},
	}
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd(a), newUserCleanupCmd(a))
	return cmd
}

func newUserCreateCmd(a *app) *cobra.Command {
	var nu core.NewUser

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a user account",
		Example: "  treectl user create --username admin --realname Admin --email admin@example.com --password '…' --admin",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			user, err := svc.CreateUser(cmd.Context(), nu)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created user %s (id %d)\n", user.UserName, user.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&nu.UserName, "username", "", "User name (required)")
	f.StringVar(&nu.RealName, "realname", "", "Real name (required)")
	f.StringVar(&nu.Email, "email", "", "Email address (required)")
	f.StringVar(&nu.Password, "password", "", "Password (required)")
	f.StringVar(&nu.Language, "language", "en", "Preferred language")
	f.BoolVar(&nu.SiteAdmin, "admin", false, "Make the user a site administrator")
	f.BoolVar(&nu.Verified, "verified", true, "Mark the email address as verified")
	for _, name := range []string{"username", "realname", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUserCleanupCmd(a *app) *cobra.Command {
	var (
		months int
		del    bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "List inactive and unverified accounts, and optionally delete them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			report, err := svc.CleanupCandidates(cmd.Context(), months)
			if err != nil {
				return err
			}

			ids := writeCleanupReport(a, report)
			if !del || len(ids) == 0 {
				return nil
			}
			n, err := svc.DeleteUsers(cmd.Context(), ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %d users\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&months, "months", core.DefaultCleanupMonths, fmt.Sprintf("Inactivity threshold, one of %v", core.CleanupMonths))
	cmd.Flags().BoolVar(&del, "delete", false, "Delete the listed accounts")
	return cmd
}

// writeCleanupReport prints the candidates and returns their IDs. Site
// administrators are listed but never returned.
func writeCleanupReport(a *app, report core.CleanupReport) []int32 {
	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"ID", "Username", "Email", "Reason"})
	table.SetAutoWrapText(false)

	deletable := report.Deletable()
	var ids []int32
	add := func(users []core.User, reason string) {
		for _, u := range users {
			r := reason
			if !deletable[u.ID] {
				r += " (administrator, kept)"
			} else {
				ids = append(ids, u.ID)
			}
			table.Append([]string{strconv.Itoa(int(u.ID)), u.UserName, u.Email, r})
		}
	}
	add(report.Inactive, fmt.Sprintf("inactive for %d months", report.Months))
	add(report.Unverified, "unverified")

	table.Render()
	return ids
}
