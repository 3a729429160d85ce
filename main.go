package main

import (
	"log"

	"github.com/kfeurstein/flexion/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
