package main

import "github.com/klytics/prospectkit/cmd"

func main() {
	cmd.Execute()
}
