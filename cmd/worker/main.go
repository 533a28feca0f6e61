package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker migrate | prices [aws|gcp|all] | sweep")
	}

	switch os.Args[1] {
	case "migrate":
		RunMigrate()
	case "prices":
		RunPrices(os.Args[2:])
	case "sweep":
		RunSweep()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
