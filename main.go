package main

import "github.com/CrossTally/crosstally-cli/cmd"

func main() {
	cmd.Execute()
}
