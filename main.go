package main

import "github.com/GajjarKashyap/Audio/cmd"

func main() {
	cmd.Execute()
}
