package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/users"
)

// CreateStaffCommand provisions a staff account, or promotes an existing one.
type CreateStaffCommand struct {
	Username     string
	Password     string
	DatabasePath string
	BcryptCost   int

	out io.Writer
}

func NewCreateStaffCommand() *CreateStaffCommand {
	return &CreateStaffCommand{out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *CreateStaffCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-staff", flag.ContinueOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username of the staff account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password, at least 8 characters (falls back to CATALOG_STAFF_PASSWORD)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database")
	fs.IntVar(&cmd.BcryptCost, "bcrypt-cost", 12, "bcrypt cost for the password hash")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-staff -username NAME [-password PASS] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a staff account that may add, edit and delete books.\n")
		fmt.Fprintf(os.Stderr, "An existing account with the same username is promoted instead.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Password == "" {
		cmd.Password = os.Getenv("CATALOG_STAFF_PASSWORD")
	}
	if cmd.Username == "" {
		return errors.New("-username is required")
	}
	if cmd.Password == "" {
		return errors.New("-password or CATALOG_STAFF_PASSWORD is required")
	}
	return nil
}

// Run executes the create-staff command
func (cmd *CreateStaffCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), config.Auth{BcryptCost: cmd.BcryptCost})
	user, err := service.CreateStaff(cmd.Username, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create staff account: %w", err)
	}

	fmt.Fprintf(cmd.out, "Staff account %q ready (id %d)\n", user.Username, user.ID)
	return nil
}
