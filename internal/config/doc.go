// Package config loads service settings from the environment, optionally seeded
// from a .env file. Each component owns its Config struct with env tags; this
// package only groups them and checks combinations such as the credentials the
// selected mail transport needs.
package config
