package main

import "github.com/brocaar/sx130x-freq/cmd/sx130x-freq/cmd"

var version string // set by the compiler

func main() {
	cmd.Execute(version)
}
