package main

import (
	"os"

	"github.com/larkhall/sift/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
