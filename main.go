package main

import "github.com/business-nexus/backend/cmd"

func main() {
	cmd.Execute()
}
