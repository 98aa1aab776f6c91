package main

import "github.com/masmgr/gitwalk/cmd"

func main() {
	cmd.Run()
}
