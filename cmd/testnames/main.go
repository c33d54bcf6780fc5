package main

import "github.com/agentic-research/testnames/cmd"

func main() {
	cmd.Execute()
}
