package main

import "github.com/sadopc/pomo/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
