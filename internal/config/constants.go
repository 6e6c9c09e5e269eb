package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./shelfwise.db"

	// DefaultSweepSchedule runs the overdue sweep nightly at 03:00
	DefaultSweepSchedule = "0 3 * * *"

	// DefaultLoanPeriodDays is the standard loan length when the caller
	// does not supply a due date
	DefaultLoanPeriodDays = 14
)
