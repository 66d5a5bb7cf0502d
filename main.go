package main

import "github.com/mkarlsen/chatplot/cmd"

func main() {
	cmd.Execute()
}
