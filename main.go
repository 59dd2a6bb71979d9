package main

import "github.com/chatmux/chatmux/cmd"

func main() {
	cmd.Execute()
}
