// Package main is the single-binary entrypoint for HabitQuest.
// One binary: CLI habit tracking plus the embedded API server.
package main

import "github.com/habitquest/habitquest/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
