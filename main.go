package main

import "github.com/bloovis/csup/internal/cli"

func main() {
	cli.Execute()
}
