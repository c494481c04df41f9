package main

import "github.com/angelospk/unpacksort/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
