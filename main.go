package main

import "github.com/user/stream-auto-editor/cmd"

func main() {
	cmd.Execute()
}
