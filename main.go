package main

import "github.com/will-rowe/tilehash/cmd"

func main() {
	cmd.Execute()
}
