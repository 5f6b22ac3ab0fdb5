package main

import "github.com/cyberstack/hemu/cmd"

func main() {
	cmd.Execute()
}
