package main

import "github.com/tranvictor/onchaincheck/cmd"

func main() {
	cmd.Execute()
}
