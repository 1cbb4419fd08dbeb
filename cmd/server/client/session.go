package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/witchfire-saves/internal/handlers/saveedit/v1alpha1"
)

var (
	sessionName string
	sessionTTL  time.Duration
	exportOut   string
	exportPlain bool
)

var openCmd = &cobra.Command{
	Use:   "open [save-file]",
	Short: "Open a save file into a new editing session",
	Long: `Upload a save document and print the new session and its summary.

  open ./Saves/slot1.json --name slot1 --ttl 2h`,
	Args: cobra.ExactArgs(1),
	RunE: openSession,
}

var infoCmd = &cobra.Command{
	Use:   "info [session-id]",
	Short: "Show a session and its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodGetSession, map[string]any{"session_id": args[0]})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [session-id]",
	Short: "Discard every edit made in a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodResetSession, map[string]any{"session_id": args[0]})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Write the edited save document",
	Long: `Download the working document of a session.

  export sess_1234 --out ./Saves/slot1.json`,
	Args: cobra.ExactArgs(1),
	RunE: exportSession,
}

var closeCmd = &cobra.Command{
	Use:   "close [session-id]",
	Short: "Close a session and drop its documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodCloseSession, map[string]any{"session_id": args[0]})
	},
}

func init() {
	openCmd.Flags().StringVar(&sessionName, "name", "", "session name (defaults to the file name)")
	openCmd.Flags().DurationVar(&sessionTTL, "ttl", 0, "session lifetime (server default when zero)")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (stdout when empty)")
	exportCmd.Flags().BoolVar(&exportPlain, "compact", false, "skip indentation")
}

func openSession(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := sessionName
	if name == "" {
		name = filepath.Base(path)
	}

	fields := map[string]any{
		"name":     name,
		"document": string(data),
	}
	if sessionTTL > 0 {
		fields["ttl_seconds"] = int64(sessionTTL / time.Second)
	}

	return callAndPrint(cmd, v1alpha1.MethodOpenSession, fields)
}

func exportSession(cmd *cobra.Command, args []string) error {
	resp, err := call(v1alpha1.MethodExportSession, map[string]any{
		"session_id": args[0],
		"indent":     !exportPlain,
	})
	if err != nil {
		return err
	}

	doc := resp.GetFields()["document"].GetStringValue()
	if err := writeOutput(cmd, exportOut, []byte(doc)); err != nil {
		return err
	}

	if exportOut != "" && exportOut != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (revision %.0f)\n",
			exportOut, resp.GetFields()["revision"].GetNumberValue())
	}
	return nil
}
