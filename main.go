package main

import (
	"github.com/kottster/adminkit/cmd"
)

func main() {
	cmd.Execute()
}
