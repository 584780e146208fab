package main

import "github.com/agentic-research/treeflat/cmd"

func main() {
	cmd.Execute()
}
