package main

import (
	"os"

	"github.com/UnifiedPortal/UnifiedPortal/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
