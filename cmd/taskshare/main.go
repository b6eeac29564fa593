package main

import (
	"context"
	"fmt"
	"os"

	"taskshare/internal/cli"
)

func main() {
	root := cli.NewRootCommand(cli.Options{})

	if err := root.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
