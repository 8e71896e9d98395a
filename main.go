package main

import (
	"os"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/app"
)

func main() {
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
