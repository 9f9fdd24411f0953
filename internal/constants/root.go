package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName           = "fortress"
	DefaultConfigPath = "~/.config/fortress/fortress.db"
	Version           = "v0.2.0"

	// DateFormat is the standard calendar-day format used throughout the
	// application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Habit duration bounds (days)
	MinDurationDays     = 1
	MaxDurationDays     = 365
	DefaultDurationDays = 21

	// Default icons for new entities
	DefaultCategoryIcon    = "📚"
	DefaultSubcategoryIcon = "📖"
	DefaultHabitIcon       = "🎯"
	DefaultCounterIcon     = "⏱️"

	// DayCacheFileName is the file holding the day-scoped mark-done set
	DayCacheFileName = "marked-done.json"

	// DefaultKeyringUser is the keyring account under which the backing
	// store API token is stored
	DefaultKeyringUser = "api-token"

	// Session States
	StateHabits SessionState = iota
	StateCounters
	StateHierarchy
	StateConfirmDelete
	StateConfirmReset
	StateCelebration
)
