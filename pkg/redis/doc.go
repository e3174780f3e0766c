// Package redis connects the optional Redis backend used to coordinate scheduled
// reminders across replicas.
//
// Connect parses a redis:// or rediss:// URL, applies pool settings from Config
// and pings the server, retrying a bounded number of times:
//
//	client, err := redis.Connect(ctx, cfg.Redis, log)
//	if err != nil {
//		return err
//	}
//
// Healthcheck plugs into the readiness probe and Shutdown into the server's
// shutdown hooks.
package redis
