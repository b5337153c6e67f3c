package main

import (
	"os"
	_ "time/tzdata" // embedded zoneinfo for the clinic timezone

	"github.com/opticare/opticare-portal/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
