package main

import "search-indexer/cmd"

func main() {
	cmd.Execute()
}
