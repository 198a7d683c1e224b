package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/filesystem"
	"github.com/choplin/cerebro/internal/usecase"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id|filename>",
		Short: "Edit a report with $EDITOR and re-index it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				uc := usecase.NewReport(dbCtx, cfg.ReportsDir)
				id, err := uc.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				detail, err := uc.Get(ctx, id, false)
				if err != nil {
					return err
				}
				path := detail.Report.FilePath

				currentContent, err := filesystem.ReadFile(path)
				if err != nil {
					return err
				}

				tempDir, err := os.MkdirTemp("", "cerebro-edit-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(tempDir)

				tempFile := filepath.Join(tempDir, detail.Report.Filename)
				if err := os.WriteFile(tempFile, []byte(currentContent), 0o600); err != nil {
					return err
				}

				editor := os.Getenv("EDITOR")
				if editor == "" {
					editor = os.Getenv("VISUAL")
				}
				if editor == "" {
					editor = "vi"
				}

				editorCmd := exec.Command(editor, tempFile) //nolint:gosec // G204: editor chosen by the user
				editorCmd.Stdin = os.Stdin
				editorCmd.Stdout = os.Stdout
				editorCmd.Stderr = os.Stderr

				if err := editorCmd.Run(); err != nil {
					return fmt.Errorf("editor exited with error: %w", err)
				}

				editedContent, err := filesystem.ReadFile(tempFile)
				if err != nil {
					return err
				}

				if sha256.Sum256([]byte(currentContent)) == sha256.Sum256([]byte(editedContent)) {
					fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
					return nil
				}

				if err := filesystem.WriteReport(path, editedContent); err != nil {
					return err
				}
				result, err := uc.IndexFile(ctx, path)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Report updated (%s)\n", result)
				return nil
			})
		},
	}

	return cmd
}
