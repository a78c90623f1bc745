package main

import "github.com/oxidoc/oxidoc/cmd"

func main() {
	cmd.Execute()
}
