package main

import "bierdata/cmd"

func main() {
	cmd.Execute()
}
