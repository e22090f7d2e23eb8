package main

import "github.com/workhub/workspace-portal/cmd"

func main() {
	cmd.Execute()
}
