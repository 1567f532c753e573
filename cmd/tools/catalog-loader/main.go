// cmd/tools/catalog-loader/main.go
//
// Imports a catalog seed file into the PostgreSQL reference tables. The
// import replaces the whole catalog in one transaction; workers pick the new
// data up on their next snapshot reload.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"gridiron-workers/internal/catalog"
	"gridiron-workers/internal/common/config"
	"gridiron-workers/pkg/catalogfile"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validateFile := validateCmd.String("file", "configs/catalog-seed.json", "Path to catalog seed file")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "configs/catalog-seed.json", "Path to catalog seed file")
	configPath := importCmd.String("config", "", "Path to config file (default: auto-discover)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		seed, err := loadAndCheck(*validateFile)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seed file valid: %d teams, %d players\n", len(seed.Teams), len(seed.Players))

	case "import":
		importCmd.Parse(os.Args[2:])
		seed, err := loadAndCheck(*importFile)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if err := importSeed(seed, *configPath); err != nil {
			fmt.Printf("Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d teams and %d players\n", len(seed.Teams), len(seed.Players))

	case "help":
		fallthrough
	default:
		help()
	}
}

// loadAndCheck runs both validation layers: the JSON schema, then the same
// snapshot build the workers perform, so alias collisions fail here instead
// of at worker startup.
func loadAndCheck(path string) (*catalogfile.File, error) {
	seed, err := catalogfile.Load(path)
	if err != nil {
		return nil, err
	}
	if _, err := catalog.BuildSnapshot(seed.Teams, seed.Players); err != nil {
		return nil, err
	}
	return seed, nil
}

func importSeed(seed *catalogfile.File, configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.Postgres.GetDSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"player_aliases", "players", "team_aliases", "teams"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, t := range seed.Teams {
		if _, err := tx.Exec(
			"INSERT INTO teams (id, full_name, city, nickname, abbreviation) VALUES ($1, $2, $3, $4, $5)",
			t.ID, t.FullName, t.City, t.Nickname, t.Abbreviation); err != nil {
			return fmt.Errorf("insert team %s: %w", t.ID, err)
		}
		for _, alias := range t.Aliases {
			if _, err := tx.Exec(
				"INSERT INTO team_aliases (team_id, alias) VALUES ($1, $2)", t.ID, alias); err != nil {
				return fmt.Errorf("insert team alias %q: %w", alias, err)
			}
		}
	}

	for _, p := range seed.Players {
		teamID := sql.NullString{String: p.TeamID, Valid: p.TeamID != ""}
		if _, err := tx.Exec(
			"INSERT INTO players (id, full_name, position, team_id) VALUES ($1, $2, $3, $4)",
			p.ID, p.FullName, string(p.Position), teamID); err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
		for _, alias := range p.Aliases {
			if _, err := tx.Exec(
				"INSERT INTO player_aliases (player_id, alias) VALUES ($1, $2)", p.ID, alias); err != nil {
				return fmt.Errorf("insert player alias %q: %w", alias, err)
			}
		}
	}

	return tx.Commit()
}

func help() {
	fmt.Println("Usage: catalog-loader <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  validate -file <path>              Check a seed file without touching the database")
	fmt.Println("  import   -file <path> [-config p]  Replace the catalog tables with the seed file")
}
