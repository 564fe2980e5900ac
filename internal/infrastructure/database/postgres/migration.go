// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Olowodarey/web3-ecommerce/internal/domain/purchase"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/upload"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Product and cart state live on chain and in Redis; Postgres holds
	// only the read-through caches and upload records.
	models := []interface{}{
		&purchase.Record{},
		&upload.UploadedFile{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_purchase_records_buyer_timestamp ON purchase_records(buyer, timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_uploaded_files_created_at ON uploaded_files(created_at DESC)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// GetTableInfo logs the migrated tables, useful during development
func (m *Migration) GetTableInfo() {
	var tables []string
	if err := m.db.Raw(
		"SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename",
	).Scan(&tables).Error; err != nil {
		log.Printf("Warning: failed to read table info: %v", err)
		return
	}
	for _, table := range tables {
		log.Printf("  table: %s", table)
	}
}
