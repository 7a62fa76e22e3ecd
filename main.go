package main

import "github.com/markb/odbcconv/cmd"

func main() {
	cmd.Execute()
}
