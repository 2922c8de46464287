package main

import "github.com/user/isocomply/cmd"

func main() {
	cmd.Execute()
}
