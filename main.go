package main

import "github.com/orgpress/orgpress/cmd"

func main() {
	cmd.Execute()
}
