package main

import (
	"github.com/bancoimob/gamebank/internal/cli"
)

func main() {
	cli.Execute()
}
