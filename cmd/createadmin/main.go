// Command createadmin creates the initial back-office admin if it does not
// exist yet. The password is read from ADMIN_PASSWORD or prompted for
// without echo.
//
// Usage:
//
//	createadmin [-d dsn] [-u username] [-n "Full Name"]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/buildpanel/internal/flagx"
	"github.com/dmitrijs2005/buildpanel/internal/logging"
	"github.com/dmitrijs2005/buildpanel/internal/server/config"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/buildpanel/internal/server/services"
)

const passwordEnv = "ADMIN_PASSWORD"

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type options struct {
	dsn      string
	username string
	fullName string
}

type adminEnsurer interface {
	EnsureAdmin(ctx context.Context, username, password, fullName string) (*models.Admin, bool, error)
}

func parseOptions(args []string, dsn string) (options, error) {
	o := options{dsn: dsn}

	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.dsn, "d", o.dsn, "database DSN")
	fs.StringVar(&o.username, "u", "admin", "admin username")
	fs.StringVar(&o.fullName, "n", "Admin User", "admin full name")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-d", "-u", "-n"})); err != nil {
		return o, err
	}
	return o, nil
}

// adminPassword returns $ADMIN_PASSWORD or prompts for the password on the
// terminal.
func adminPassword(w io.Writer) (string, error) {
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}

	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	if len(pw) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(pw), nil
}

func createAdmin(ctx context.Context, svc adminEnsurer, o options, password string, w io.Writer) error {
	admin, created, err := svc.EnsureAdmin(ctx, o.username, password, o.fullName)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(w, "admin created: %s\n", admin.Username)
	} else {
		fmt.Fprintf(w, "admin already exists: %s\n", admin.Username)
	}
	return nil
}

func run(ctx context.Context) error {
	cfg := config.LoadWithoutFlags()
	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	o, err := parseOptions(os.Args[1:], cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	password, err := adminPassword(os.Stdout)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	db, err := repomanager.OpenDB(ctx, o.dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	return createAdmin(ctx, services.NewAuthService(db, rm, cfg, logger), o, password, os.Stdout)
}

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
