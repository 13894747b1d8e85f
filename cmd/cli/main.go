package main

import "github.com/pagerank-bench/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
