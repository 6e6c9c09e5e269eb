package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/shelfwise/shelfwise/internal/circulation"
	"github.com/shelfwise/shelfwise/internal/database/books"
	"github.com/shelfwise/shelfwise/internal/database/borrowings"
	"github.com/shelfwise/shelfwise/internal/database/genres"
	"github.com/shelfwise/shelfwise/internal/database/members"
	"github.com/shelfwise/shelfwise/internal/database/settings"
	"github.com/shelfwise/shelfwise/internal/http"
	"github.com/shelfwise/shelfwise/internal/scheduler"
	"github.com/shelfwise/shelfwise/internal/tasks"
)

// =============================================================================
// Circulation Core
// =============================================================================

// The repositories backing the borrowing lifecycle
var _ circulation.BookLedger = (*books.Repository)(nil)
var _ circulation.MemberDirectory = (*members.Repository)(nil)
var _ circulation.LoanStore = (*borrowings.Repository)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

// Controller stores
var _ http.BookStore = (*books.Repository)(nil)
var _ http.GenreStore = (*genres.Repository)(nil)
var _ http.MemberStore = (*members.Repository)(nil)
var _ http.SettingsStore = (*settings.Repository)(nil)
var _ http.CirculationService = (*circulation.Service)(nil)

// Dashboard counters
var _ http.BookCounter = (*books.Repository)(nil)
var _ http.MemberCounter = (*members.Repository)(nil)
var _ http.LoanCounter = (*borrowings.Repository)(nil)

// Sweep control surface
var _ http.SweepControl = (*scheduler.OverdueSweepScheduler)(nil)

// =============================================================================
// Background Work
// =============================================================================

// The scheduler and the task queue both drive the same sweep
var _ scheduler.SweepRunner = (*circulation.Service)(nil)
var _ tasks.Sweeper = (*circulation.Service)(nil)
var _ tasks.SweepRecorder = (*settings.Repository)(nil)
