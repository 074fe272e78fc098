package main

import "medialink/cmd"

func main() {
	cmd.Execute()
}
