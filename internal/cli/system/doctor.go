package system

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitheat/internal/cli"
	"github.com/julianstephens/habitheat/internal/constants"
	"github.com/julianstephens/habitheat/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}

		if err := checkTickIntegrity(ctx); err != nil {
			fmt.Printf("❌ Tick integrity: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Tick integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
		fmt.Printf("⊘ Tick integrity: SKIPPED (database not reachable)\n")
	}

	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	if others, err := otherInstances(); err != nil {
		fmt.Printf("⚠ Concurrent instances: WARNING\n   Could not inspect process list: %v\n", err)
	} else if others > 0 {
		fmt.Printf("⚠ Concurrent instances: WARNING\n   %d other habitheat process(es) running; writes race on the same database\n", others)
	} else {
		fmt.Printf("✓ Concurrent instances: OK\n")
	}

	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n   Keyring unavailable; app token falls back to the meta table\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics found problems.")
		os.Exit(1)
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	return ctx.Store.DB().Ping()
}

func checkSchemaVersion(ctx *cli.Context) error {
	version, err := ctx.Store.SchemaVersion()
	if err != nil {
		return err
	}
	if version < 1 {
		return fmt.Errorf("schema version %d, expected at least 1", version)
	}
	return nil
}

// checkTickIntegrity verifies the row-exists-means-positive-count invariant
// and that no tick points at a missing habit.
func checkTickIntegrity(ctx *cli.Context) error {
	db := ctx.Store.DB()

	var badCounts int
	if err := db.QueryRow("SELECT COUNT(*) FROM ticks WHERE count <= 0").Scan(&badCounts); err != nil {
		return err
	}
	if badCounts > 0 {
		return fmt.Errorf("%d tick row(s) with non-positive count", badCounts)
	}

	var orphans int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM ticks t
		LEFT JOIN habits h ON h.id = t.habit_id
		WHERE h.id IS NULL`).Scan(&orphans)
	if err != nil {
		return err
	}
	if orphans > 0 {
		return fmt.Errorf("%d tick row(s) reference missing habits", orphans)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock reports %s, which looks wrong", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation(now.Location().String()); err != nil && now.Location() != time.Local {
		return fmt.Errorf("timezone %q not resolvable: %v", now.Location(), err)
	}
	return nil
}

// otherInstances counts habitheat processes other than this one.
func otherInstances() (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range procs {
		if p.Pid() == os.Getpid() {
			continue
		}
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			count++
		}
	}
	return count, nil
}
