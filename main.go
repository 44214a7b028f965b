package main

import "github.com/chapool/wallet-agent/cmd"

func main() {
	cmd.Execute()
}
