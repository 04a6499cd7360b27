package main

import "github.com/kleisauke/cargo-c/cmd"

func main() {
	cmd.Execute()
}
