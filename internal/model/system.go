package model

// VersionInfo contains version, schema and feature information for the application.
// MigrationNeeded is set when embedded migrations are newer than the applied schema.
type VersionInfo struct {
	AppVersion       string          `json:"app_version"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message,omitempty"`
}
