package commands

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"marketplace-api/configs"
)

const (
	versionTimeFormat   = "20060102150405"
	defaultMigrationDir = "migrations"
)

// emptyMigration is a no-op command list for the mongodb driver.
const emptyMigration = "[]\n"

func createMigrationCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate-create [name]",
		Short: "create mongodb migration files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up, down, err := createMigration(dir, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Println("Created up script:", up)
			fmt.Println("Created down script:", down)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", defaultMigrationDir, "migrations directory")
	return cmd
}

func createMigration(dir, name string, now time.Time) (string, string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "", "", errors.New("migration name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}

	version := now.Format(versionTimeFormat)
	up := filepath.Join(dir, fmt.Sprintf("%s_%s.up.json", version, name))
	down := filepath.Join(dir, fmt.Sprintf("%s_%s.down.json", version, name))

	if err := os.WriteFile(up, []byte(emptyMigration), 0o644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(down, []byte(emptyMigration), 0o644); err != nil {
		return "", "", err
	}
	return up, down, nil
}

func migrateUpCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate-up",
		Short: "migrate all the way up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrate(dir)
			if err != nil {
				return err
			}
			defer func() { _, _ = m.Close() }()

			err = m.Up()
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("No change in migration")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println("Migrated up")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", defaultMigrationDir, "migrations directory")
	return cmd
}

func migrateDownCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate-down",
		Short: "roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrate(dir)
			if err != nil {
				return err
			}
			defer func() { _, _ = m.Close() }()

			err = m.Steps(-1)
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("No migrations to roll back")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println("Rolled back one migration")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", defaultMigrationDir, "migrations directory")
	return cmd
}

func newMigrate(dir string) (*migrate.Migrate, error) {
	cfg, err := configs.Load()
	if err != nil {
		return nil, err
	}
	dsn, err := migrationURL(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	return migrate.New("file://"+dir, dsn)
}

// migrationURL puts the database name in the URI path, where the migrate
// mongodb driver reads it from.
func migrationURL(uri, database string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse MONGOURI: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return "", fmt.Errorf("unsupported MONGOURI scheme %q", u.Scheme)
	}
	if strings.Trim(u.Path, "/") == "" {
		u.Path = "/" + database
	}
	return u.String(), nil
}
