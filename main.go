package main

import "github.com/bwanab/music-build/cmd"

func main() {
	cmd.Execute()
}
