package main

import "github.com/qrcraft/qrcraft/cmd"

func main() {
	cmd.Execute()
}
