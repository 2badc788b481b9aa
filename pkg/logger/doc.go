// Package logger provides a slog factory with functional options and helper
// attribute constructors shared across the module.
//
// The single factory, New, creates a *slog.Logger configured by Option
// functions: output format (text or json), minimum level, default
// attributes, and environment presets (WithDevelopment, WithProduction).
// The attr helpers keep log field names consistent between packages.
package logger
