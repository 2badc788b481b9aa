// Package redis provides Redis connection management for the Redis-backed
// session store. Configuration is environment-driven; Connect retries
// transient startup failures and Healthcheck wires readiness probes.
package redis
