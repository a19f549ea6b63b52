// Package testutil provides deterministic helpers shared by tests.
package testutil
