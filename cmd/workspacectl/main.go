package main

import "github.com/Sohammathur/Chat-Application--AI/internal/cli"

func main() {
	cli.Execute()
}
