package main

import (
	"context"
	"fmt"
	"io"
	"moodmatch/backend/internal/chathub"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/storage"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// opener connects to the database. Redis is not needed for admin commands.
type opener func() (*storage.Service, error)

func openFromConfig() (*storage.Service, error) {
	config.LoadDotEnv()
	cfg, err := config.Load(config.DefaultConfigFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.App.Env)
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return storage.NewStorageService(db, nil), nil
}

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Maintenance commands for the MoodMatch database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			if err := storage.Migrate(s.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations complete.")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "active-matches",
		Short: "List matches that are still open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			matches, err := s.ListActiveMatches(cmd.Context())
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No active matches.")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%d\t%s\n",
					m.ID, m.Label, m.User1ID, m.User2ID, m.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "end-match <match_id>",
		Short: "Close a match on behalf of its participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := open()
			if err != nil {
				return err
			}
			match, err := s.GetMatch(cmd.Context(), id)
			if err != nil {
				return err
			}
			if match == nil {
				return fmt.Errorf("match %d not found", id)
			}
			if err := chathub.NewMatcherService(s).EndMatch(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Match %d has been ended.\n", id)
			return nil
		},
	})

	var limit int
	emotions := &cobra.Command{
		Use:   "emotions <user_id>",
		Short: "Show a user's emotion log, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := open()
			if err != nil {
				return err
			}
			recs, err := s.ListEmotions(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			for _, r := range recs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.2f\t%s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"), r.Label, r.Confidence, r.Source)
			}
			return nil
		},
	}
	emotions.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show (0 for all)")
	root.AddCommand(emotions)

	return root
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func main() {
	if err := newRootCmd(openFromConfig, os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
