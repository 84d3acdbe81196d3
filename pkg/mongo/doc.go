// Package mongo connects to the MongoDB deployment that stores administrator
// TOTP credentials.
//
// Configuration is read from MONGODB_* environment variables through
// github.com/caarlos0/env. New retries the initial connection and ping,
// honouring context cancellation between attempts.
//
// # Usage
//
//	cfg := mongo.Config{ConnectionURL: "mongodb://localhost:27017", Database: "admin2fa"}
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "")
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	check := mongo.Healthcheck(db.Client())
//	if err := check(ctx); err != nil {
//		// not ready
//	}
//
// Errors wrap the driver error with errors.Join, so both ErrFailedToConnectToMongo
// and the underlying cause match with errors.Is.
package mongo
