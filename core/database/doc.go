// Package database handles the optional journal database connection.
//
// It wraps GORM and configures either a SQLite file (the default, no server
// required) or a MySQL connection based on the application's configuration.
//
// # Connect
//
// Connect opens the dialect selected by Config.Driver and pings it within
// Config.TimeoutSeconds.
//
// # Schema Inspection
//
// TableColumns and MissingColumns report the columns of a table for both
// dialects; the integrity command uses them to verify the journal table.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Journal disabled", zap.Error(err))
//	}
package database
