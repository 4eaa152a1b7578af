package main

import "github.com/shikshadesk/shikshactl/cmd/shikshactl/cmd"

func main() {
	cmd.Execute()
}
