package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/platewise/staffhub-backend/internal/config"
	"github.com/platewise/staffhub-backend/internal/database"
	"github.com/platewise/staffhub-backend/internal/permissions"
)

type SeedData struct {
	Users       []User       `yaml:"users"`
	Restaurants []Restaurant `yaml:"restaurants"`
}

type User struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
}

type Restaurant struct {
	Name         string     `yaml:"name"`
	Address      string     `yaml:"address"`
	Phone        string     `yaml:"phone"`
	ManagerEmail string     `yaml:"manager_email"`
	Positions    []Position `yaml:"positions"`
	Employees    []Employee `yaml:"employees"`
}

type Position struct {
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type Employee struct {
	UserEmail string `yaml:"user_email"`
	Position  string `yaml:"position,omitempty"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seedFile := flag.String("file", "seed.yaml", "path to the seed data file")
	migrate := flag.Bool("migrate", true, "run migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if *migrate {
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	data, err := os.ReadFile(*seedFile)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}

	ctx := context.Background()
	st := db.Store()

	usersByEmail := make(map[string]uuid.UUID)
	for _, u := range seed.Users {
		role, err := permissions.ParseRole(u.Role)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		created, err := st.CreateUser(ctx, u.Email, u.Name, role)
		if err != nil {
			return fmt.Errorf("creating user %s: %w", u.Email, err)
		}
		usersByEmail[u.Email] = created.ID
		log.Printf("Created user %s (%s)", u.Email, role)
	}

	for _, r := range seed.Restaurants {
		restaurant, err := st.CreateRestaurant(ctx, r.Name, r.Address, r.Phone)
		if err != nil {
			return fmt.Errorf("creating restaurant %s: %w", r.Name, err)
		}

		if r.ManagerEmail != "" {
			managerID, ok := usersByEmail[r.ManagerEmail]
			if !ok {
				return fmt.Errorf("restaurant %s: unknown manager %s", r.Name, r.ManagerEmail)
			}
			if _, err := st.SetRestaurantManager(ctx, restaurant.ID, &managerID); err != nil {
				return fmt.Errorf("assigning manager of %s: %w", r.Name, err)
			}
		}

		positionsByName := make(map[string]uuid.UUID)
		for _, p := range r.Positions {
			position, err := st.CreatePosition(ctx, restaurant.ID, nil, p.Name)
			if err != nil {
				return fmt.Errorf("creating position %s: %w", p.Name, err)
			}
			positionsByName[p.Name] = position.ID

			codes := make([]permissions.Code, 0, len(p.Permissions))
			for _, raw := range p.Permissions {
				code, err := permissions.ParseCode(raw)
				if err != nil {
					return fmt.Errorf("position %s: %w", p.Name, err)
				}
				codes = append(codes, code)
			}
			if err := st.ReplacePositionPermissions(ctx, position.ID, codes); err != nil {
				return fmt.Errorf("granting permissions to %s: %w", p.Name, err)
			}
		}

		for _, e := range r.Employees {
			userID, ok := usersByEmail[e.UserEmail]
			if !ok {
				return fmt.Errorf("restaurant %s: unknown employee %s", r.Name, e.UserEmail)
			}
			var positionID *uuid.UUID
			if e.Position != "" {
				id, ok := positionsByName[e.Position]
				if !ok {
					return fmt.Errorf("restaurant %s: unknown position %s", r.Name, e.Position)
				}
				positionID = &id
			}
			if _, err := st.UpsertMembership(ctx, userID, restaurant.ID, positionID, true); err != nil {
				return fmt.Errorf("adding %s to %s: %w", e.UserEmail, r.Name, err)
			}
		}

		log.Printf("Seeded restaurant %s with %d positions and %d employees",
			r.Name, len(r.Positions), len(r.Employees))
	}

	return nil
}
