package main

import (
	"github.com/sidkik/squirt/cmd"
	"github.com/sidkik/squirt/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
