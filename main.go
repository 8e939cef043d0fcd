// Package main is the entry point of roisim.
package main

import "github.com/sarchlab/roisim/cmd"

func main() {
	cmd.Execute()
}
