package main

import "github.com/Tiliavir/taskboard/cmd"

func main() {
	cmd.Execute()
}
