package main

import "martianoff/bfgo/cmd/bfgo/commands"

func main() {
	commands.Execute()
}
