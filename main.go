package main

import "marketplace-api/commands"

func main() {
	commands.Execute()
}
