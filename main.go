package main

import "github.com/stratus-cli/stratus/cmd"

func main() {
	cmd.Execute()
}
