package main

import "github.com/srf-tools/microphonics/internal/cli"

func main() {
	cli.Execute()
}
