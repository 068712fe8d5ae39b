package main

import "go_purl_tools/cmd"

func main() {
	cmd.Execute()
}
