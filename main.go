package main

import "github.com/theirongolddev/tripcast/cmd"

func main() {
	cmd.Execute()
}
