package main

import "github.com/Tiliavir/orometrisi/cmd"

func main() {
	cmd.Execute()
}
