package main

import "github.com/meltforce/ironlog/internal/cli"

func main() {
	cli.Execute()
}
