package main

import "github.com/splitr/splitr/internal/cli"

func main() {
	cli.Execute()
}
