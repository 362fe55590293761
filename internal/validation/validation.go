// Package validation checks habit input before it reaches storage.
package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitheat/internal/models"
)

// ValidateName rejects names that are empty after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	return nil
}

// ValidateColor rejects colors outside the fixed palette.
func ValidateColor(color models.HabitColor) error {
	if !color.Valid() {
		return fmt.Errorf("unknown color %q (valid: %s)", color, paletteNames())
	}
	return nil
}

// ValidateTarget rejects non-positive daily targets. A nil target is valid
// and means the default of one completion per day.
func ValidateTarget(target *int) error {
	if target != nil && *target <= 0 {
		return fmt.Errorf("daily target must be positive, got %d", *target)
	}
	return nil
}

// ValidateHabit runs all habit field checks and returns the first failure.
func ValidateHabit(name string, color models.HabitColor, target *int) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateColor(color); err != nil {
		return err
	}
	return ValidateTarget(target)
}

func paletteNames() string {
	names := make([]string, len(models.Palette))
	for i, c := range models.Palette {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
