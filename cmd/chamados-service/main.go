package main

import (
	"log"
	// Ticket timestamps depend on America/Sao_Paulo being loadable even in
	// containers without a system zoneinfo database.
	_ "time/tzdata"

	"github.com/facilops/chamados-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
