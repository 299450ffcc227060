package main

import "oem719parse/internal/cli"

func main() {
	cli.Execute()
}
