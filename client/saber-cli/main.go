package main

import "Saber/client/saber-cli/cmd"

func main() {
	cmd.Execute()
}
