package main

import (
	"log"

	"atrium/cmd/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("atrium: %v", err)
	}
}
