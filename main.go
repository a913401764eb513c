package main

import "github.com/taikt/sw-task/pkg/commands"

func main() {
	commands.Execute()
}
