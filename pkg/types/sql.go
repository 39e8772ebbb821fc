package types

// SQLInstance represents a managed Cloud SQL instance.
//
// EngineName and EngineVersion are derived fields not present in the raw
// API response: the name comes from the databaseVersion code, the version
// from the release-notes feed.
type SQLInstance struct {
	Name            string `json:"name"`
	Project         string `json:"project"`
	Region          string `json:"region"`
	State           string `json:"state"`           // RUNNABLE, SUSPENDED, etc.
	Tier            string `json:"tier"`            // Machine tier (db-n1-standard-1)
	ConnectionName  string `json:"connection_name"` // project:region:instance
	DatabaseVersion string `json:"database_version"` // Raw code (MYSQL_8_0)
	EngineName      string `json:"engine_name"`      // "MySQL 8.0"
	EngineVersion   string `json:"engine_version"`   // "8.0.35"

	// Raw holds the original API response for provider-specific access
	Raw interface{} `json:"-"`
}

// IsRunnable returns true if the instance is serving.
func (s *SQLInstance) IsRunnable() bool {
	return s.State == "RUNNABLE"
}
