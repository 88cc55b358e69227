package main

import "github.com/mvp-joe/corex/internal/cli"

func main() {
	cli.Execute()
}
