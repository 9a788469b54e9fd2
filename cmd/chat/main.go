package main

import "github.com/Rrens/smartchat/internal/cli"

func main() {
	cli.Execute()
}
