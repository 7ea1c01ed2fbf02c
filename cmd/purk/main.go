package main

import "github.com/mchmarny/purk/pkg/cli"

func main() {
	cli.Execute()
}
