package main

import "github.com/OpenTraceLab/xraytodo/cmd/xraytodo/cmd"

func main() {
	cmd.Execute()
}
