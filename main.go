package main

import "github.com/openswoop/syllabank/cmd"

func main() {
	cmd.Execute()
}
