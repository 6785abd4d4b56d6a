// Package main is the entry point of the careauth service and its maintenance commands.
package main

import (
	"log"
	"os"

	"github.com/MSSkowron/CareAuth/cmd/careauth/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
