// Package backups holds the snapshot export/import commands.
package backups

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitheat/internal/backup"
	"github.com/julianstephens/habitheat/internal/cli"
)

type BackupExportCmd struct {
	Out string `help:"Output file path (default: stdout)."`
}

func (c *BackupExportCmd) Run(ctx *cli.Context) error {
	data, err := backup.Export(ctx.Store, ctx.Clock)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if c.Out == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(c.Out, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	fmt.Printf("✓ Backup written to %s\n", c.Out)
	return nil
}

type BackupImportCmd struct {
	File  string `arg:"" help:"Path to the snapshot file."`
	Force bool   `help:"Skip the confirmation prompt."`
}

func (c *BackupImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	if !c.Force {
		fmt.Println("⚠️  WARNING: importing replaces ALL current habits and history.")
		fmt.Printf("Import from: %s\n", c.File)
		fmt.Print("Continue? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" && response != "yes" {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	if err := backup.Import(ctx.Store, ctx.Bus, ctx.Clock, data); err != nil {
		return err
	}
	fmt.Println("✓ Backup imported.")
	return nil
}
