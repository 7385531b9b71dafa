package main

import "github.com/cran/rapportools/cmd"

func main() {
	cmd.Execute()
}
