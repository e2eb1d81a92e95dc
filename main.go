package main

import (
	"log"

	"github.com/voxelfit/batchfit/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		log.Fatalf("cmd.Execute error: %v", err)
	}
}
