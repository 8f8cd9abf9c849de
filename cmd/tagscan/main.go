package main

import "github.com/tagscan/tagscan/cmd/tagscan/cmd"

func main() {
	cmd.Execute()
}
