package main

import "github.com/jomc/jomc/cmd/jomc/commands"

func main() {
	commands.Execute()
}
