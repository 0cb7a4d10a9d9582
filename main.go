package main

import "github.com/solbuild/solbuild/cmd"

func main() {
	cmd.Execute()
}
