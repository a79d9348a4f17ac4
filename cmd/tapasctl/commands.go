package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"tapas_chat/internal/app"
	"tapas_chat/internal/markup"
	"tapas_chat/internal/shared"
	mysqlrepo "tapas_chat/internal/storage/mysql"
)

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCmd() *cobra.Command {
	var preview int
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render assistant markup to safe HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(args)
			if err != nil {
				return err
			}
			if preview > 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), markup.Preview(string(b), preview))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), markup.Render(string(b)))
			return err
		},
	}
	cmd.Flags().IntVar(&preview, "preview", 0, "print a plain-text preview of at most n characters instead")
	return cmd
}

func classifyCmd(cfg shared.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Classify one assistant payload into chat messages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(args)
			if err != nil {
				return err
			}
			var payload any
			if json.Unmarshal(b, &payload) != nil {
				payload = string(b)
			}
			return printJSON(cmd.OutOrStdout(), app.ToViews(newClassifier(cfg).Classify(payload)))
		},
	}
}

func replayCmd(cfg shared.Config) *cobra.Command {
	var workers int
	var full bool
	cmd := &cobra.Command{
		Use:   "replay <glob>...",
		Short: "Classify recorded payload files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			for _, g := range args {
				m, err := filepath.Glob(g)
				if err != nil {
					return fmt.Errorf("bad pattern %q: %w", g, err)
				}
				files = append(files, m...)
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %v", args)
			}
			res, err := app.Replay(context.Background(), newClassifier(cfg), files, workers)
			if err != nil {
				return err
			}
			if !full {
				for i := range res {
					res[i].Messages = nil
				}
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", cfg.ReplayWorkers, "files classified in parallel")
	cmd.Flags().BoolVar(&full, "full", false, "include the classified messages, not only their kinds")
	return cmd
}

func migrateCmd(cfg shared.Config) *cobra.Command {
	var direction string
	var steps int
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the conversation archive schema to MySQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = cfg.MySQLDSN
			}
			if err := mysqlrepo.Migrate(dsn, direction, steps); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "migrate %s ok\n", direction)
			return err
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "up", "up or down")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "MySQL DSN (defaults to MYSQL_DSN)")
	return cmd
}

func sessionsCmd(cfg shared.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recently active sessions in the MySQL archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := sql.Open("mysql", cfg.MySQLDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			out, err := mysqlrepo.New(db).Sessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum sessions to list")
	return cmd
}
