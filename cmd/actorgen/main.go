package main

import (
	"fmt"
	"os"

	"github.com/teranos/actorgen/cmd/actorgen/cmd"
	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/logger"
)

func main() {
	err := cmd.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
