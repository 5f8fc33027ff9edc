package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/syllogiz/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the local database: question bank, sessions and progress",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	if cfg.DB.Driver != store.DriverSQLite {
		return fmt.Errorf("reset only removes local SQLite databases; drop the %s tables yourself", cfg.DB.Driver)
	}
	path := sqlitePath(cfg.DB.DSN)

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete %s and all drill history? [y/N] ", path)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	removed := 0
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	if removed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to delete.")
		return nil
	}
	log.WithField("path", path).Info("database reset")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", path)
	return nil
}

// sqlitePath strips the URI scheme and query parameters from a SQLite DSN.
func sqlitePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}
