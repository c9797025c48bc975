package services

import (
	"os"
	"testing"

	"rewardtrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access issues
	// with in-memory databases. This also serializes the concurrency tests'
	// transactions the way a real store's conflict handling would.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Create tables using raw SQLite-compatible SQL instead of AutoMigrate,
	// because the GORM model tags use PostgreSQL-specific defaults like gen_random_uuid().
	if err := createSQLiteTables(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in correct order to respect foreign keys
	testDB.Exec("DELETE FROM point_transactions")
	testDB.Exec("DELETE FROM reward_redemptions")
	testDB.Exec("DELETE FROM members")
	testDB.Exec("DELETE FROM settings")
	testDB.Exec("DELETE FROM users")
	return testDB
}

// createSQLiteTables creates all tables with SQLite-compatible DDL.
func createSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"name" TEXT,
			"role" TEXT DEFAULT 'owner',
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_deleted_at ON "users"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "members" (
			"id" TEXT PRIMARY KEY,
			"owner_id" TEXT NOT NULL,
			"name" TEXT NOT NULL,
			"total_points" INTEGER NOT NULL DEFAULT 0,
			"reward_count" INTEGER NOT NULL DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_members_owner FOREIGN KEY ("owner_id") REFERENCES "users"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_members_owner_id ON "members"("owner_id")`,

		`CREATE TABLE IF NOT EXISTS "point_transactions" (
			"id" TEXT PRIMARY KEY,
			"owner_id" TEXT NOT NULL,
			"member_id" TEXT NOT NULL,
			"member_name" TEXT NOT NULL,
			"points" INTEGER NOT NULL,
			"effective_date" DATETIME NOT NULL,
			"notes" TEXT,
			"created_at" DATETIME,
			CONSTRAINT fk_point_transactions_member FOREIGN KEY ("member_id") REFERENCES "members"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_point_transactions_owner_id ON "point_transactions"("owner_id")`,
		`CREATE INDEX IF NOT EXISTS idx_point_transactions_member_id ON "point_transactions"("member_id")`,

		`CREATE TABLE IF NOT EXISTS "reward_redemptions" (
			"id" TEXT PRIMARY KEY,
			"owner_id" TEXT NOT NULL,
			"member_id" TEXT NOT NULL,
			"member_name" TEXT NOT NULL,
			"description" TEXT NOT NULL,
			"points_spent" INTEGER NOT NULL,
			"redeemed_at" DATETIME NOT NULL,
			CONSTRAINT fk_reward_redemptions_member FOREIGN KEY ("member_id") REFERENCES "members"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reward_redemptions_owner_id ON "reward_redemptions"("owner_id")`,
		`CREATE INDEX IF NOT EXISTS idx_reward_redemptions_member_id ON "reward_redemptions"("member_id")`,

		`CREATE TABLE IF NOT EXISTS "settings" (
			"id" TEXT PRIMARY KEY,
			"owner_id" TEXT NOT NULL,
			"points_to_reward" INTEGER NOT NULL DEFAULT 100,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_settings_owner FOREIGN KEY ("owner_id") REFERENCES "users"("id")
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_settings_owner_id ON "settings"("owner_id")`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedOwner creates an owner account for ledger tests.
func seedOwner(db *gorm.DB, email string) models.User {
	owner := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "hash",
		Name:     "Test Owner",
	}
	db.Create(&owner)
	return owner
}

// seedMember creates a member with the given balance directly in the store.
func seedMember(db *gorm.DB, ownerID uuid.UUID, name string, totalPoints int) models.Member {
	member := models.Member{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		TotalPoints: totalPoints,
	}
	db.Create(&member)
	return member
}
