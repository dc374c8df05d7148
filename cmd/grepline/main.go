package main

import (
	"os"

	"github.com/harrison/grepline/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
