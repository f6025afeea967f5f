package main

import "sigkit/internal/cli"

func main() {
	cli.Main()
}
