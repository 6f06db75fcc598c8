package main

import "github.com/panyam/blang/cmd/bl/commands"

func main() {
	commands.Execute()
}
