package main

import "github.com/acadix/scan/cmd"

func main() {
	cmd.Execute()
}
