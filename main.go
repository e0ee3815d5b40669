package main

import "github.com/Huzaifa084/HalalClassified/cmd"

func main() {
	cmd.Run()
}
