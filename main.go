package main

import "lead-reconciler/cmd"

func main() {
	cmd.Execute()
}
