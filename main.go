package main

import "github.com/naka-gawa/github-dormant/cmd"

func main() {
	cmd.Execute()
}
