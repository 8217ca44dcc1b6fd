package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/nutrition"
)

// SeedThreshold is the catalog size at or below which SeedCatalog fills in
// the built-in foods. A catalog larger than this is assumed to be curated.
const SeedThreshold = 25

// seedFoods is the built-in catalog (kcal per serving or per 100 g).
var seedFoods = []model.FoodCatalogEntry{
	// healthy staples
	{Name: "Manzana", Calories: 52}, {Name: "Plátano", Calories: 89},
	{Name: "Pechuga de Pollo", Calories: 165}, {Name: "Arroz Blanco", Calories: 130},
	{Name: "Huevo", Calories: 155}, {Name: "Avena", Calories: 389},
	{Name: "Ensalada Mixta", Calories: 15}, {Name: "Salmón", Calories: 208},
	{Name: "Brócoli", Calories: 34}, {Name: "Aguacate", Calories: 160},
	{Name: "Pasta", Calories: 131}, {Name: "Yogurt Griego", Calories: 59},
	{Name: "Almendras", Calories: 579}, {Name: "Lentejas", Calories: 116},
	{Name: "Quinoa", Calories: 120}, {Name: "Espinacas", Calories: 23},

	// junk food and snacks
	{Name: "Coca Cola 355ml", Calories: 140}, {Name: "Pepsi 355ml", Calories: 150},
	{Name: "Papas Fritas Bolsa", Calories: 536}, {Name: "Donas Glaseadas", Calories: 452},
	{Name: "Hamburguesa con Queso", Calories: 295}, {Name: "Pizza Pepperoni", Calories: 266},
	{Name: "Hot Dog", Calories: 290}, {Name: "Nuggets de Pollo (6pcs)", Calories: 280},
	{Name: "Papas Fritas (M)", Calories: 312}, {Name: "Refresco de Naranja", Calories: 160},
	{Name: "Gansito", Calories: 203}, {Name: "Papas Sabritas", Calories: 160},
	{Name: "Doritos", Calories: 150}, {Name: "Cheetos", Calories: 160},
	{Name: "Chocolate Hershey", Calories: 210},

	// desserts and shakes
	{Name: "Helado de Chocolate", Calories: 216}, {Name: "Helado de Vainilla", Calories: 201},
	{Name: "Brownie", Calories: 466}, {Name: "Batido de Fresa", Calories: 250},
	{Name: "Batido de Chocolate", Calories: 280}, {Name: "Malteada de Vainilla", Calories: 350},
	{Name: "Pastel de Chocolate", Calories: 371}, {Name: "Pay de Limón", Calories: 280},
	{Name: "Galletas Oreo (4)", Calories: 213}, {Name: "Muffin de Arándano", Calories: 426},
	{Name: "Crepa con Nutella", Calories: 450},

	// mixed dishes
	{Name: "Tacos al Pastor (1)", Calories: 150}, {Name: "Sushi Roll (8pcs)", Calories: 300},
	{Name: "Burrito de Carne", Calories: 430}, {Name: "Lasagna", Calories: 135},
	{Name: "Ceviche", Calories: 120}, {Name: "Empanada de Carne", Calories: 250},
	{Name: "Sándwich de Jamón y Queso", Calories: 350}, {Name: "Quesadilla", Calories: 220},
	{Name: "Paella", Calories: 156},

	// ingredients for custom meals
	{Name: "Pan de Torta", Calories: 150}, {Name: "Jamón (rebanada)", Calories: 30},
	{Name: "Queso Panela (30g)", Calories: 80}, {Name: "Aguacate (1/4)", Calories: 60},
	{Name: "Lechuga (taza)", Calories: 5}, {Name: "Jitomate (rebanada)", Calories: 4},
	{Name: "Cebolla (rebanada)", Calories: 4}, {Name: "Mayonesa (cucharada)", Calories: 90},
	{Name: "Mostaza (cucharada)", Calories: 10}, {Name: "Chiles en vinagre", Calories: 10},
	{Name: "Frijoles Refritos (cucharada)", Calories: 45}, {Name: "Tortilla de Maíz", Calories: 52},
	{Name: "Carne al Pastor (100g)", Calories: 170}, {Name: "Cilantro y Cebolla", Calories: 5},
	{Name: "Salsa Roja/Verde", Calories: 10}, {Name: "Piña (trozo)", Calories: 5},
}

// SeedFoods returns a copy of the built-in catalog.
func SeedFoods() []model.FoodCatalogEntry {
	out := make([]model.FoodCatalogEntry, len(seedFoods))
	copy(out, seedFoods)
	return out
}

// SeedCatalog adds the built-in foods when the catalog holds SeedThreshold
// entries or fewer. With reset the catalog is emptied first. Names already
// present are kept as they are. It returns how many rows were inserted.
func (db *DB) SeedCatalog(ctx context.Context, reset bool) (int, error) {
	inserted := 0
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if reset {
			if _, err := tx.ExecContext(ctx, `DELETE FROM calorie_db`); err != nil {
				return fmt.Errorf("sqlite: clearing catalog: %w", err)
			}
		}

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM calorie_db`).Scan(&count); err != nil {
			return fmt.Errorf("sqlite: counting catalog: %w", err)
		}
		if count > SeedThreshold {
			return nil
		}

		for _, f := range seedFoods {
			n, err := insertCatalogEntry(ctx, tx, f.Name, f.Calories)
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// AddCatalogEntry inserts one food into the catalog. A duplicate name
// (ignoring case) is a conflict.
func (db *DB) AddCatalogEntry(ctx context.Context, name string, calories int) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO calorie_db (name, search_name, calories) VALUES (?, ?, ?)`,
		name, nutrition.Fold(name), calories,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.Conflict("name", fmt.Sprintf("food %q already in catalog", name))
		}
		return 0, fmt.Errorf("sqlite: inserting food %q: %w", name, err)
	}
	return res.LastInsertId()
}

func insertCatalogEntry(ctx context.Context, tx *sql.Tx, name string, calories int) (int, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO calorie_db (name, search_name, calories) VALUES (?, ?, ?)`,
		name, nutrition.Fold(name), calories,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: seeding food %q: %w", name, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
