package main

import "github.com/gush-shell/gush/cmd"

func main() {
	cmd.Execute()
}
