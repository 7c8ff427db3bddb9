package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/validation"
)

// SeedFile is the JSON layout accepted by the seed command.
//
//	{"authors": [{"first_name": "Frank", "last_name": "Herbert",
//	  "books": [{"title": "Dune", "isbn": "9780441172719", "popularity": 10}]}]}
type SeedFile struct {
	Authors []SeedAuthor `json:"authors"`
}

type SeedAuthor struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Bio       string     `json:"bio"`
	Books     []SeedBook `json:"books"`
}

type SeedBook struct {
	Title      string `json:"title"`
	ISBN       string `json:"isbn"`
	Popularity int    `json:"popularity"`
}

// SeedResult counts what a seed run did.
type SeedResult struct {
	Authors      int
	BooksCreated int
	BooksSkipped int
}

// SeedCommand loads authors and books from a JSON file into the catalog.
type SeedCommand struct {
	FilePath     string
	DatabasePath string
	Verbose      bool
	DryRun       bool

	out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the JSON file with authors and books (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every book as it is processed")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the file without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed -file books.json [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load authors and books into the catalog. Books that already exist for\n")
		fmt.Fprintf(os.Stderr, "an author (same title) are skipped, so the command can be re-run.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return errors.New("-file is required")
	}
	return nil
}

// Run executes the seed command
func (cmd *SeedCommand) Run() error {
	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var file SeedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := file.Validate(); err != nil {
		return err
	}

	if cmd.DryRun {
		books := 0
		for _, a := range file.Authors {
			books += len(a.Books)
		}
		fmt.Fprintf(cmd.out, "Seed file is valid: %d authors, %d books (dry run, nothing written)\n", len(file.Authors), books)
		return nil
	}

	db, err := database.NewDatabase(cmd.DatabasePath, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := cmd.seed(authors.NewRepository(db.DB), books.NewRepository(db.DB), file)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "Seeded %d authors: %d books created, %d already present\n",
		result.Authors, result.BooksCreated, result.BooksSkipped)
	return nil
}

// Validate checks every entry before anything is written.
func (f SeedFile) Validate() error {
	var problems []string
	for i, a := range f.Authors {
		if strings.TrimSpace(a.FirstName) == "" && strings.TrimSpace(a.LastName) == "" {
			problems = append(problems, fmt.Sprintf("author %d: name is required", i+1))
		}
		for j, b := range a.Books {
			where := fmt.Sprintf("author %d book %d", i+1, j+1)
			if strings.TrimSpace(b.Title) == "" {
				problems = append(problems, where+": title is required")
			}
			if len(b.Title) > 255 {
				problems = append(problems, where+": title must be at most 255 characters")
			}
			if !validation.ValidISBN(b.ISBN) {
				problems = append(problems, fmt.Sprintf("%s: invalid isbn %q", where, b.ISBN))
			}
			if b.Popularity < 0 {
				problems = append(problems, where+": popularity must not be negative")
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid seed file:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

func (cmd *SeedCommand) seed(authorRepo *authors.Repository, bookRepo *books.Repository, file SeedFile) (SeedResult, error) {
	var result SeedResult

	for _, a := range file.Authors {
		author, err := authorRepo.GetOrCreateAuthor(strings.TrimSpace(a.FirstName), strings.TrimSpace(a.LastName), a.Bio)
		if err != nil {
			return result, fmt.Errorf("failed to save author %s %s: %w", a.FirstName, a.LastName, err)
		}
		result.Authors++

		existing, err := authorRepo.GetAuthorByID(author.ID)
		if err != nil {
			return result, fmt.Errorf("failed to load author %d: %w", author.ID, err)
		}
		titles := make(map[string]bool, len(existing.Books))
		for _, b := range existing.Books {
			titles[strings.ToLower(b.Title)] = true
		}

		for _, b := range a.Books {
			title := strings.TrimSpace(b.Title)
			if titles[strings.ToLower(title)] {
				result.BooksSkipped++
				if cmd.Verbose {
					fmt.Fprintf(cmd.out, "  skip   %s (%s)\n", title, author.DisplayName())
				}
				continue
			}

			book := &entities.Book{
				Title:      title,
				AuthorID:   author.ID,
				ISBN:       validation.NormalizeISBN(b.ISBN),
				Popularity: b.Popularity,
			}
			if err := bookRepo.CreateBook(book); err != nil {
				return result, fmt.Errorf("failed to save book %q: %w", title, err)
			}
			titles[strings.ToLower(title)] = true
			result.BooksCreated++
			if cmd.Verbose {
				fmt.Fprintf(cmd.out, "  create %s (%s)\n", title, author.DisplayName())
			}
		}
	}

	return result, nil
}
