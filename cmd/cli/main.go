package main

import "github.com/mochapay/mocha/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
