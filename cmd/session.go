package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetlens/internal/parser"
	"github.com/KaramelBytes/sheetlens/internal/session"
	"github.com/KaramelBytes/sheetlens/internal/utils"
)

var sessShowFull bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create or inspect stored sessions",
}

// persistentStore opens the configured backend, refusing the in-memory one
// since nothing would outlive the command.
func persistentStore() (session.Store, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	switch session.Backend(c.SessionBackend) {
	case "", session.BackendMemory:
		return nil, errors.New("session commands need a persistent backend (use --backend file|badger|sqlite)")
	}
	return openStore(c)
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Store a CSV/XLSX file and print its session id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parser.DecodeFile(args[0])
		if err != nil {
			return err
		}
		store, err := persistentStore()
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Create(logger.WithContext(cmd.Context()), t, filepath.Base(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored session's preview (or full table) as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := persistentStore()
		if err != nil {
			return err
		}
		defer store.Close()
		rec, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := map[string]any{
			"sessionId": rec.SessionID,
			"filename":  rec.Filename,
		}
		if sessShowFull {
			out["data"] = rec.Full.Matrix()
		} else {
			out["preview"] = rec.Preview.Matrix()
		}
		b, err := utils.PrettyJSON(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionShowCmd.Flags().BoolVar(&sessShowFull, "full", false, "print the full table instead of the preview")
}
