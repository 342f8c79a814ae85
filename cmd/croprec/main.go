package main

import "croprec/internal/cli"

func main() {
	cli.Execute()
}
