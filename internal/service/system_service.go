package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/database"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService.
// features lists optional capabilities and whether they are enabled, e.g. "secure_notes".
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	if features == nil {
		features = map[string]bool{}
	}
	return &SystemService{
		db:       db,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the applied schema version and
// whether embedded migrations are still pending.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	applied, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	latest, err := database.LatestVersion()
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(applied, 10),
		Features:   s.features,
	}
	if applied < latest {
		msg := fmt.Sprintf("database schema %d is behind %d; run migrations", applied, latest)
		info.MigrationNeeded = true
		info.MigrationMessage = &msg
	}
	return info, nil
}
