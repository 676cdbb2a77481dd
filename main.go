package main

import "github.com/sergev/diskcopy/cmd"

func main() {
	cmd.Execute()
}
