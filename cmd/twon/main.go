package main

import "github.com/Laisky/twon/cmd"

func main() {
	cmd.Execute()
}
