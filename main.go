package main

import "github.com/maxvaer/weakscan/cmd"

func main() {
	cmd.Execute()
}
