// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Circulation Interfaces
//
//   - BookLedger: available-copy accounting (internal/circulation/service.go)
//   - MemberDirectory: member lookups for eligibility checks (internal/circulation/service.go)
//   - LoanStore: borrowing records and guarded status transitions (internal/circulation/service.go)
//
// ## HTTP Store Interfaces
//
//   - BookStore, GenreStore, MemberStore: catalog CRUD (internal/http/stores.go)
//   - CirculationService: the borrowing lifecycle (internal/http/stores.go)
//   - SettingsStore: key/value settings (internal/http/stores.go)
//   - BookCounter, MemberCounter, LoanCounter: dashboard counts (internal/http/stores.go)
//   - SweepControl: scheduler surface for the settings controller (internal/http/settings.go)
//
// ## Background Work Interfaces
//
//   - scheduler.SweepRunner: one overdue sweep pass (internal/scheduler/overdue_sweep.go)
//   - scheduler.Enqueuer: hand a sweep to the task queue (internal/scheduler/overdue_sweep.go)
//   - tasks.Sweeper, tasks.SweepRecorder: the queued sweep and its outcome (internal/tasks/overdue_sweep.go)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g. reservations):
//
//  1. Create sub-package: internal/database/reservations/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the consumer-side interface next to the controller that needs
//     it, following internal/http/stores.go
//
//  4. Add a compile-time check in checks.go:
//
//     var _ http.ReservationStore = (*reservations.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
