// Package buildcheck holds tests that keep the Makefile test targets honest.
package buildcheck
