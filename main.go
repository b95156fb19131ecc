package main

import "github.com/davebream/rpcstub/cmd"

func main() {
	cmd.Execute()
}
