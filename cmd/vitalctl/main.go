// Command vitalctl is the administration CLI: it applies migrations, seeds
// the food catalog, adds catalog entries and prints TDEE estimates.
//
//	vitalctl migrate
//	vitalctl seed [--reset]
//	vitalctl catalog add --name "Avena" --calories 150
//	vitalctl tdee --age 30 --sex mujer --height 165 --weight 60 --activity intenso --goal bajar
//
// The database path comes from --db or DB_PATH, after loading .env.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/nutrition"
	sqliteRepo "github.com/sakif/vitaltrack/internal/repository/sqlite"
)

const defaultDBPath = "data/vitaltrack.db"

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vitalctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vitalctl",
		Usage: "administer a VitalTrack database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database file",
				Value:   defaultDBPath,
				EnvVars: []string{"DB_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: runMigrate,
			},
			{
				Name:  "seed",
				Usage: "add the built-in foods when the catalog is nearly empty",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "reset", Usage: "empty the catalog before seeding"},
				},
				Action: runSeed,
			},
			{
				Name:  "catalog",
				Usage: "manage the food catalog",
				Subcommands: []*cli.Command{
					{
						Name:  "add",
						Usage: "add one food",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true},
							&cli.IntFlag{Name: "calories", Required: true},
						},
						Action: runCatalogAdd,
					},
				},
			},
			{
				Name:  "tdee",
				Usage: "print the daily calorie target for a profile",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "age"},
					&cli.StringFlag{Name: "sex"},
					&cli.Float64Flag{Name: "height", Usage: "height in cm"},
					&cli.Float64Flag{Name: "weight", Usage: "weight in kg"},
					&cli.StringFlag{Name: "activity"},
					&cli.StringFlag{Name: "goal"},
				},
				Action: runTDEE,
			},
		},
	}
}

func openDB(c *cli.Context) (*sqliteRepo.DB, error) {
	path := c.String("db")
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return sqliteRepo.New(path)
}

func runMigrate(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(c.App.Writer, "database %s is up to date\n", c.String("db"))
	return nil
}

func runSeed(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.SeedCatalog(c.Context, c.Bool("reset"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "inserted %d foods\n", n)
	return nil
}

func runCatalogAdd(c *cli.Context) error {
	if c.Int("calories") < 0 {
		return cli.Exit("calories must be zero or more", 2)
	}

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.AddCatalogEntry(c.Context, c.String("name"), c.Int("calories"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "added %q (%d kcal) with id %d\n", c.String("name"), c.Int("calories"), id)
	return nil
}

func runTDEE(c *cli.Context) error {
	stored := model.Profile{
		Age:           c.Int("age"),
		Sex:           model.Sex(c.String("sex")),
		HeightCm:      c.Float64("height"),
		WeightKg:      c.Float64("weight"),
		ActivityLevel: model.ActivityLevel(c.String("activity")),
		Goal:          model.Goal(c.String("goal")),
	}
	p := nutrition.Normalize(stored.WithDefaults())

	fmt.Fprintf(c.App.Writer, "%s, %d y, %.0f cm, %.0f kg, %s, %s: %d kcal/day\n",
		p.Sex, p.Age, p.HeightCm, p.WeightKg, p.ActivityLevel, p.Goal, nutrition.EstimateTDEE(p))
	return nil
}
