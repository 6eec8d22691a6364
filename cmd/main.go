package main

import (
	cmd "github.com/kerbaras/mangaverse/cmd/mangaverse"
)

func main() {
	cmd.Execute()
}
