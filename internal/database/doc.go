// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, ErrNotFound
//	├── books/           # Book CRUD and id-set resolution
//	├── authors/         # Author reads (and inserts for seeding)
//	├── users/           # User accounts
//	└── audit/           # Audit trail of staff mutations and sign-ups
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./catalog.db", logger)
//
//	booksRepo := books.NewRepository(db.DB)
//	authorsRepo := authors.NewRepository(db.DB)
//
//	book, err := booksRepo.GetBookByID(1)
//	if errors.Is(err, database.ErrNotFound) { ... }
//
// Sessions are not stored through gorm: scs' sqlite3store owns the
// "sessions" table in the same file (see internal/auth).
//
// Each sub-package has compile-time interface checks in internal/interfaces.
package database
