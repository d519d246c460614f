// Package mongo opens MongoDB connections from environment configuration.
//
// New applies the pool and retry settings from Config and only returns a
// client once a ping succeeds. Healthcheck adapts a client to the readiness
// probe signature used by httpserver.HealthCheckHandler.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
// # Error Handling
//
// Connection failures wrap ErrFailedToConnectToMongo and probe failures wrap
// ErrHealthcheckFailed; both can be matched with errors.Is.
package mongo
