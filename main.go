package main

import "github.com/killallgit/vaultchat/cmd"

func main() {
	cmd.Execute()
}
