package main

import "github.com/lokal-dev/lokal/cmd"

func main() {
	cmd.Execute()
}
