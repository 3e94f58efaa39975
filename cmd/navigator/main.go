package main

import "navigator/internal/cli"

func main() {
	cli.Execute()
}
