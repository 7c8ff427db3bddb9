package config

const (
	// DefaultDatabasePath is the default path for the catalog database.
	// Sessions and the task queue live alongside it.
	DefaultDatabasePath = "./catalog.db"

	// DefaultAuditCleanupSchedule runs the audit retention job daily at 03:00.
	DefaultAuditCleanupSchedule = "0 3 * * *"
)
