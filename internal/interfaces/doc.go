// Package interfaces documents the core abstractions used throughout the application.
//
// The package holds no runtime code. checks.go pins every concrete type to the
// interfaces it is injected through, so a renamed method breaks the build here
// instead of at a distant call site.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book reads and staff mutations (internal/http/stores.go)
//   - AuthorStore: Author lookups and existence checks (internal/http/stores.go)
//   - BookLister: Full book listing for catalog queries (internal/catalog/catalog.go)
//   - BookResolver: Id lookups for favourites (internal/favorites/favorites.go)
//   - UserStore: Accounts for authentication (internal/auth/service.go)
//
// ## Session Interfaces
//
//   - SessionStore: Key-value session state, satisfied by *scs.SessionManager
//	(internal/favorites/favorites.go)
//   - Favorites: Session favourites as seen by handlers (internal/http/stores.go)
//
// ## Audit and Background Work
//
//   - BookAuditor, AuditReader: Audit trail writes and reads (internal/http/stores.go)
//   - SignupRecorder: New account notifications (internal/auth/handlers.go)
//   - AuditEventCleaner: Retention cleanup target (internal/tasks/cleanup_audit.go)
//   - TaskRunner: Task status and manual runs over HTTP (internal/http/tasks.go)
//   - CleanupEnqueuer: Scheduled cleanup enqueueing (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Background Task
//
//  1. Define the task and its queue in internal/tasks/:
//
//	type ReindexTask struct{}
//
//	func (t ReindexTask) Config() backlite.QueueConfig {
//		return backlite.QueueConfig{Name: "reindex", MaxAttempts: 3}
//	}
//
//	func NewReindexQueue(...) backlite.Queue {
//		return backlite.NewQueue[ReindexTask](processor)
//	}
//
//  2. Register the queue in entrypoint.go
//
//  3. Expose it in the task types list of internal/http/tasks.go if staff
//     should be able to run it by hand
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/loans/
//
//  2. Define repository:
//
//	type Repository struct { db *gorm.DB }
//
//	func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the entity to the AutoMigrate list in internal/database/database.go
//
//  4. Add compile-time check:
//
//	var _ http.LoanStore = (*loans.Repository)(nil)
//
// # Compile-Time Interface Checks
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
