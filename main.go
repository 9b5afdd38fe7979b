package main

import "github.com/alexiusacademia/gomoscap/cmd"

func main() {
	cmd.Execute()
}
