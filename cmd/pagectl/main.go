package main

import "github.com/emrgen/page/cmd"

func main() {
	cmd.Execute()
}
