// Package cli implements the shelfwise subcommands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/database"
	"github.com/shelfwise/shelfwise/internal/database/books"
	"github.com/shelfwise/shelfwise/internal/database/genres"
	"github.com/shelfwise/shelfwise/internal/database/members"
	"github.com/shelfwise/shelfwise/internal/entities"
)

// SeedCommand loads a demo data set into the database: sample books across
// the default genres, a few members, and optionally the two staff accounts.
type SeedCommand struct {
	DatabasePath      string
	AdminPassword     string
	LibrarianPassword string
}

// NewSeedCommand creates a new SeedCommand.
func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

// ParseFlags parses command line flags.
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.AdminPassword, "admin-password", "", "Password for the seeded 'admin' account (skipped if empty)")
	fs.StringVar(&cmd.LibrarianPassword, "librarian-password", "", "Password for the seeded 'librarian' account (skipped if empty)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load sample books, members and staff accounts into the database.\n")
		fmt.Fprintf(os.Stderr, "Safe to re-run: records that already exist are left alone.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -db ./library.db -admin-password 'a-long-password'\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the seed command.
func (cmd *SeedCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := cmd.seedStaff(db); err != nil {
		return err
	}
	if err := cmd.seedBooks(db); err != nil {
		return err
	}
	if err := cmd.seedMembers(db); err != nil {
		return err
	}

	fmt.Println("Database seeding completed successfully")
	return nil
}

func (cmd *SeedCommand) seedStaff(db *database.Database) error {
	authService := auth.NewService(db.DB, config.NewConfig().Auth)

	accounts := []struct {
		username string
		password string
		role     entities.UserRole
	}{
		{"admin", cmd.AdminPassword, entities.UserRoleAdmin},
		{"librarian", cmd.LibrarianPassword, entities.UserRoleLibrarian},
	}

	for _, account := range accounts {
		if account.password == "" {
			fmt.Printf("Skipping staff account %q (no password given)\n", account.username)
			continue
		}
		_, err := authService.CreateUser(account.username, account.password, account.role)
		switch {
		case err == nil:
			fmt.Printf("Staff account created: %s (%s)\n", account.username, account.role)
		case errors.Is(err, auth.ErrUserExists):
			fmt.Printf("Staff account %q already exists, skipping\n", account.username)
		default:
			return fmt.Errorf("failed to create staff account %q: %w", account.username, err)
		}
	}
	return nil
}

func (cmd *SeedCommand) seedBooks(db *database.Database) error {
	booksRepo := books.NewRepository(db.DB)
	genresRepo := genres.NewRepository(db.DB)

	allGenres, err := genresRepo.GetAllGenres()
	if err != nil {
		return fmt.Errorf("failed to load genres: %w", err)
	}
	genreID := func(name string) string {
		for _, genre := range allGenres {
			if genre.Name == name {
				return genre.ID
			}
		}
		return ""
	}

	samples := []entities.Book{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "978-0-7432-7356-5", TotalCopies: 5, GenreID: genreID("Fiction")},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "978-0-06-112008-4", TotalCopies: 3, GenreID: genreID("Fiction")},
		{Title: "Dune", Author: "Frank Herbert", ISBN: "978-0-441-17271-9", TotalCopies: 4, GenreID: genreID("Science Fiction")},
		{Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", ISBN: "978-0-544-00341-5", TotalCopies: 6, GenreID: genreID("Fantasy")},
		{Title: "Clean Code", Author: "Robert C. Martin", ISBN: "978-0-13-235088-4", TotalCopies: 2, GenreID: genreID("Technology")},
	}

	existing, err := booksRepo.GetAllBooks()
	if err != nil {
		return fmt.Errorf("failed to list books: %w", err)
	}
	byISBN := make(map[string]bool, len(existing))
	for _, book := range existing {
		byISBN[book.ISBN] = true
	}

	for _, book := range samples {
		if byISBN[book.ISBN] {
			fmt.Printf("Book %q already exists, skipping\n", book.Title)
			continue
		}
		if err := booksRepo.CreateBook(&book); err != nil {
			return fmt.Errorf("failed to create book %q: %w", book.Title, err)
		}
		fmt.Printf("Book created: %s\n", book.Title)
	}
	return nil
}

func (cmd *SeedCommand) seedMembers(db *database.Database) error {
	membersRepo := members.NewRepository(db.DB)
	expiry := time.Now().AddDate(1, 0, 0)

	samples := []entities.Member{
		{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", MembershipNumber: "LIB001", Phone: "+1-555-0123", Address: "123 Main St, Anytown, ST 12345", MembershipExpiry: &expiry, IsActive: true},
		{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", MembershipNumber: "LIB002", Phone: "+1-555-0124", Address: "456 Oak Ave, Anytown, ST 12345", MembershipExpiry: &expiry, IsActive: true},
		{FirstName: "Bob", LastName: "Johnson", Email: "bob.johnson@example.com", MembershipNumber: "LIB003", Phone: "+1-555-0125", Address: "789 Pine St, Anytown, ST 12345", MembershipExpiry: &expiry, IsActive: true},
	}

	for _, member := range samples {
		if _, err := membersRepo.GetMemberByMembershipNumber(member.MembershipNumber); err == nil {
			fmt.Printf("Member %s already exists, skipping\n", member.MembershipNumber)
			continue
		}
		if err := membersRepo.CreateMember(&member); err != nil {
			return fmt.Errorf("failed to create member %s: %w", member.MembershipNumber, err)
		}
		fmt.Printf("Member created: %s %s\n", member.FirstName, member.LastName)
	}
	return nil
}
