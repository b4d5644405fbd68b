// Package config loads typed configuration structs from environment
// variables (with optional .env file support) and caches each type so
// repeated loads are cheap and consistent across the process.
package config
