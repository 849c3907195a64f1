package main

import "github.com/corvidae-labs/netwatch/cmd"

func main() {
	cmd.Execute()
}
