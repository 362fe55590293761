package constants

const (
	AppName           = "habitheat"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/habitheat/habitheat.db"

	// DateFormat is the standard calendar-day format used throughout the
	// application (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// MetaKey is the fixed key of the singleton app metadata record.
	MetaKey = "app-habits"

	// DBVersion is the current logical schema version recorded in meta.
	DBVersion = 2

	// EventJournalName is the journal file used for cross-process change
	// notifications, created next to the database.
	EventJournalName = "events.jsonl"

	// KeyringUser is the keyring account name for the app token.
	KeyringUser = "app-token"

	// ImportSentinel is the payload emitted after a bulk restore so
	// subscribers refresh unconditionally instead of filtering by id.
	ImportSentinel = "bulk-import"
)
