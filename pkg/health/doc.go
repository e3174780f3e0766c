// Package health serves the liveness and readiness probes.
//
// [LivenessHandler] answers OK as long as the process is up.
// [ReadinessHandler] runs a set of named [Checks] in parallel under a
// shared timeout and answers 503 if any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}, health.WithLogger(log), health.WithTimeout(3*time.Second)))
//
// Both handlers answer plain text ("OK", "Service Unavailable") unless the
// client asks for JSON with ?format=json or an Accept: application/json
// header:
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"redis: unavailable"}}}
//
// A check cut short by the timeout reports [ErrCheckTimeout]. [Run] exposes
// the same aggregation without HTTP and returns [ErrCheckFailed] on failure.
package health
