// Package observ measures the phases of a command run.
package observ
