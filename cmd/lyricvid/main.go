package main

import "github.com/forPelevin/lyricvid/internal/cli"

func main() {
	cli.Main()
}
