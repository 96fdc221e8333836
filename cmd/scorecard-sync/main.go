package main

import "github.com/pfrederiksen/scorecard-sync/internal/cli"

func main() {
	cli.Execute()
}
