package main

import "github.com/longkey1/gemchat/cmd"

func main() {
	cmd.Execute()
}
