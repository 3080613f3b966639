package main

import "github.com/strogmv/userstore/internal/cli"

func main() {
	cli.Execute()
}
