package main

import "github.com/Alijeyrad/telecare_backend/cmd"

func main() {
	cmd.Execute()
}
