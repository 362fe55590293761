// Package system holds lifecycle and maintenance commands.
package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitheat/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete any existing database before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.ConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(func(msg string) { fmt.Println(msg) }); err != nil {
		return err
	}
	fmt.Printf("Initialized habitheat storage at: %s\n", ctx.Store.ConfigPath())
	return nil
}
