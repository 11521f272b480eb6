package main

import "github.com/mcoot/scorekeeper/internal/cli"

func main() {
	cli.Execute()
}
