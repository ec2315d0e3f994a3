package main

import "github.com/hlystovov/zip-archiver/zipar/cmd"

func main() {
	cmd.Execute()
}
