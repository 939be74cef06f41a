package main

import "photosort/cmd"

func main() {
	cmd.Execute()
}
