package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with roles, applications and an administrator account for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"permissions", "user_roles", "one_time_codes", "users"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		roles := []struct {
			Name string
			Desc string
		}{
			{"Employee", "Default role assigned to every user"},
			{"Administrator", "Full access to the admin surface"},
		}

		for _, r := range roles {
			var id int64
			row := db.Raw("SELECT id FROM roles WHERE name = ?", r.Name).Row()
			if err := row.Scan(&id); err != nil {
				if err := db.Exec("INSERT INTO roles (name, description, created_at) VALUES (?, ?, now())", r.Name, r.Desc).Error; err != nil {
					log.Fatalf("failed to insert role %s: %v", r.Name, err)
				}
				fmt.Printf("Seeded role: %s\n", r.Name)
			}
		}

		appName := "User Management"
		var appID int64
		if err := db.Raw("SELECT id FROM applications WHERE name = ?", appName).Row().Scan(&appID); err != nil {
			if err := db.Exec("INSERT INTO applications (name, created_at) VALUES (?, now())", appName).Error; err != nil {
				log.Fatalf("failed to insert application %s: %v", appName, err)
			}
			if err := db.Raw("SELECT id FROM applications WHERE name = ?", appName).Row().Scan(&appID); err != nil {
				log.Fatalf("application not found after insert: %v", err)
			}
			fmt.Printf("Seeded application: %s\n", appName)
		}

		var adminRoleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", "Administrator").Row().Scan(&adminRoleID); err != nil {
			log.Fatalf("failed to lookup Administrator role: %v", err)
		}

		// Administrator gets the full matrix on User Management
		var exists int
		if err := db.Raw("SELECT 1 FROM permissions WHERE role_id = ? AND application_id = ?", adminRoleID, appID).Row().Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO permissions (role_id, application_id, can_view, can_create, can_edit, can_delete, created_at) VALUES (?, ?, true, true, true, true, now())", adminRoleID, appID).Error; err != nil {
				log.Fatalf("failed to grant permissions to Administrator: %v", err)
			}
			fmt.Println("Granted full User Management permissions to Administrator")
		}

		adminEmail := "admin@portal.local"
		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		var adminID string
		if err := db.Raw("SELECT id FROM users WHERE lower(email) = lower(?)", adminEmail).Row().Scan(&adminID); err != nil {
			adminID = uuid.NewString()
			if err := db.Exec("INSERT INTO users (id, email, full_name, password_hash, status, created_at) VALUES (?, ?, ?, ?, 'active', now())", adminID, adminEmail, "Portal Admin", string(hash)).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		} else {
			fmt.Println("admin user already exists; will ensure role link")
		}

		if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?", adminID, adminRoleID).Row().Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO user_roles (user_id, role_id, created_at) VALUES (?, ?, now())", adminID, adminRoleID).Error; err != nil {
				log.Fatalf("failed to link admin user to Administrator role: %v", err)
			}
		}

		fmt.Println("Seeding completed")
	},
}
