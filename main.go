package main

import (
	"os"

	"mdblog/service"
)

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the command line with the process arguments and exits with its status.
func RealMain() {
	exit(service.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
