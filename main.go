package main

import (
	"sql-remap/cmd"
)

func main() {
	cmd.Execute()
}
