package main

import "github.com/Tiliavir/flightlog/cmd"

func main() {
	cmd.Execute()
}
