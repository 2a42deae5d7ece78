package config

import "errors"

type ReportConfig struct {
	// DBPath is the path to the BoltDB file holding quote reports.
	// Default: "./data/reports.db"
	DBPath string

	// PersistenceEnabled keeps reports on disk; otherwise they live in memory.
	// Default: true
	PersistenceEnabled bool

	// MemoryCapacity caps the in-memory store. Oldest reports are evicted first.
	// Default: 10000
	MemoryCapacity int
}

func (c *ReportConfig) Key() string {
	return REPORT_CONFIG_KEY
}

func (c *ReportConfig) Load() error {
	c.DBPath = getEnvOrDefault("REPORT_DB_PATH", "./data/reports.db")
	c.PersistenceEnabled = getEnvOrDefaultBool("REPORT_PERSISTENCE_ENABLED", true)
	c.MemoryCapacity = getEnvOrDefaultInt("REPORT_MEMORY_CAPACITY", 10000)
	return c.Validate()
}

func (c *ReportConfig) Validate() error {
	if c.PersistenceEnabled && c.DBPath == "" {
		return errors.New("REPORT_DB_PATH is required when persistence is enabled")
	}
	if c.MemoryCapacity <= 0 {
		return errors.New("REPORT_MEMORY_CAPACITY must be positive")
	}
	return nil
}
