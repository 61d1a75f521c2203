package main

import "github.com/Fepozopo/pixfx/pkg/cli"

func main() {
	cli.Execute()
}
