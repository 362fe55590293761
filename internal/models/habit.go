package models

import "github.com/julianstephens/habitheat/internal/clock"

// HabitColor is one of the fixed palette tags a habit can be rendered with.
type HabitColor string

const (
	ColorBlue    HabitColor = "blue"
	ColorEmerald HabitColor = "emerald"
	ColorViolet  HabitColor = "violet"
	ColorAmber   HabitColor = "amber"
	ColorRose    HabitColor = "rose"
	ColorRed     HabitColor = "red"
	ColorTeal    HabitColor = "teal"
)

// Palette lists every valid habit color in display order.
var Palette = []HabitColor{
	ColorBlue, ColorEmerald, ColorViolet, ColorAmber, ColorRose, ColorRed, ColorTeal,
}

// Hex returns the display hex code for the color, or an empty string for an
// unknown tag.
func (c HabitColor) Hex() string {
	switch c {
	case ColorBlue:
		return "#2563eb"
	case ColorEmerald:
		return "#059669"
	case ColorViolet:
		return "#7c3aed"
	case ColorAmber:
		return "#f59e0b"
	case ColorRose:
		return "#f43f5e"
	case ColorRed:
		return "#ef4444"
	case ColorTeal:
		return "#0d9488"
	}
	return ""
}

// Valid reports whether the color is part of the palette.
func (c HabitColor) Valid() bool {
	return c.Hex() != ""
}

// Habit is a user-defined habit. The id is assigned at creation and never
// changes. Timestamps are epoch milliseconds.
type Habit struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Color        HabitColor `json:"color"`
	TargetPerDay *int       `json:"targetPerDay,omitempty"`
	SortOrder    int64      `json:"sortOrder"`
	CreatedAt    int64      `json:"createdAt"`
	UpdatedAt    int64      `json:"updatedAt"`
}

// Target returns the effective daily target: TargetPerDay when set, else 1.
func (h Habit) Target() int {
	if h.TargetPerDay != nil && *h.TargetPerDay > 0 {
		return *h.TargetPerDay
	}
	return 1
}

// DailyTick records the completion count for a habit on one calendar day.
// A tick row exists only while count > 0; absence means zero.
type DailyTick struct {
	HabitID string       `json:"habitId"`
	Date    clock.DayKey `json:"date"`
	Count   int          `json:"count"`
}

// AppMeta is the singleton metadata record.
type AppMeta struct {
	Key       string `json:"key"`
	DBVersion int    `json:"dbVersion"`
	Timezone  string `json:"timezone"`
	AppToken  string `json:"appToken,omitempty"`
}

// StreakSummary describes a habit's streak state as of today.
type StreakSummary struct {
	Current      int          `json:"current"`
	Longest      int          `json:"longest"`
	LastMarkedOn clock.DayKey `json:"lastMarkedOn,omitempty"`
}

// HabitPatch is a partial habit update. Nil fields are left untouched.
type HabitPatch struct {
	Name         *string
	Color        *HabitColor
	TargetPerDay *int
	SortOrder    *int64
}
