package main

import "game-warehouse/cmd"

func main() {
	cmd.Execute()
}
