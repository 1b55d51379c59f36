package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"resolve/backend/internal/accounts"
	"resolve/backend/internal/models"
	"resolve/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "detect":
		if err := storageSvc.RunSuspiciousActivityDetection(); err != nil {
			log.Fatalf("Error running detection: %v", err)
		}
		fmt.Println("Detection run completed.")
	case "resolve-activity":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin resolve-activity <activity_id> <admin_user_id>")
			os.Exit(1)
		}
		if err := storageSvc.ResolveSuspiciousActivity(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error resolving activity: %v", err)
		}
		fmt.Printf("Activity %s has been resolved.\n", os.Args[2])
	case "grant-admin":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin grant-admin <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := grantAdmin(storageSvc, userID); err != nil {
			log.Fatalf("Error granting admin role: %v", err)
		}
		fmt.Printf("User %s is now an admin.\n", userID)
	case "create-users":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin create-users <users.json>")
			os.Exit(1)
		}
		created, failed, err := createUsers(storageSvc, os.Args[2])
		if err != nil {
			log.Fatalf("Error creating users: %v", err)
		}
		for _, u := range created {
			fmt.Printf("Created %s (%s) as %s.\n", u.Email, u.UserID, u.Role)
		}
		for _, f := range failed {
			fmt.Printf("Failed %s: %s\n", f.Email, f.Err)
		}
		fmt.Printf("Batch complete. Success: %d, Errors: %d.\n", len(created), len(failed))
	case "close":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin close <complaint_id>")
			os.Exit(1)
		}
		complaintID := os.Args[2]
		if err := closeComplaint(storageSvc, complaintID); err != nil {
			log.Fatalf("Error closing complaint: %v", err)
		}
		fmt.Printf("Complaint %s has been resolved.\n", complaintID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// createUsers provisions a batch of pre-verified accounts from a JSON file
// of {email, password, full_name, role} entries.
func createUsers(s storage.Storage, path string) ([]accounts.Created, []accounts.Failure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var specs []accounts.Spec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, nil, fmt.Errorf("invalid users file: %w", err)
	}
	if len(specs) == 0 {
		return nil, nil, fmt.Errorf("users file is empty")
	}
	created, failed := accounts.CreateBatch(s, specs)
	return created, failed, nil
}

func grantAdmin(s storage.Storage, userID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s not found", userID)
	}
	return s.GrantRole(userID, models.RoleAdmin)
}

func closeComplaint(s storage.Storage, complaintID string) error {
	complaint, err := s.GetComplaintByID(complaintID)
	if err != nil {
		return err
	}
	if complaint == nil {
		return fmt.Errorf("complaint %s not found", complaintID)
	}
	if complaint.Status == models.StatusResolved {
		return nil
	}
	_, err = s.UpdateComplaintStatus(complaintID, models.StatusResolved)
	return err
}
