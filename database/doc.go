// Package database provides the GORM connection the fixture loader writes
// through: driver selection (sqlite, postgres), connection retries and
// pooling, transactions with panic recovery, schema inspection for the
// purger, and translation of driver errors into AppErrors.
//
// # Usage
//
//	db, err := database.Open(ctx, database.Config{Driver: "sqlite", DSN: "app.db"}, log)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	err = db.WithTransaction(ctx, func(tx *gorm.DB) error {
//	    schema, err := database.Inspect(tx)
//	    ...
//	})
//
// Query logging goes through the structured logger; set log_level to
// "info" to see every statement at debug level.
package database
