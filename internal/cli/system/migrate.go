package system

import (
	"fmt"
	"io/fs"

	"github.com/julianstephens/habitheat/internal/cli"
	"github.com/julianstephens/habitheat/internal/migration"
	"github.com/julianstephens/habitheat/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Open(); err != nil {
		return err
	}
	db := ctx.Store.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access migrations: %w", err)
	}

	count, err := migration.NewRunner(db, subFS).Apply(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
