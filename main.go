package main

import "github.com/dscurate/dscurate/cmd"

func main() {
	cmd.Execute()
}
