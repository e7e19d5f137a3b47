package main

import "github.com/openshorts/openshorts/internal/cli"

func main() {
	cli.Main()
}
