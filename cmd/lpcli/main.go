// Command lpcli runs inference sessions from the terminal and serves the
// HTTP API.
//
// @title           llamapanama API
// @version         1.0
// @description     HTTP API for local inference sessions.
//
// @BasePath  /
//
// @schemes http
package main

import (
	"os"

	"llamapanama/internal/cli"
)

func main() { os.Exit(cli.Main()) }
