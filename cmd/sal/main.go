package main

import (
	"context"
	"os"

	"github.com/igoryan-dao/sal/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
