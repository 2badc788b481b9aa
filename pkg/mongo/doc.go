// Package mongo provides MongoDB connection management for the shared
// session store.
//
// Configuration is environment-driven and uses discrete host, port and
// credential fields rather than a connection string, matching how the
// session database is typically provisioned (a dedicated user in a
// dedicated authentication database). The built-in retry loop absorbs
// transient connection failures during startup.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(context.Background(), cfg, "Session")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	// Wire a readiness probe.
//	health := mongo.Healthcheck(db.Client())
//	if err := health(context.Background()); err != nil {
//		log.Println("mongo is unavailable:", err)
//	}
//
// Connection failures are wrapped in package sentinel errors so callers can
// use errors.Is for clean error handling.
package mongo
