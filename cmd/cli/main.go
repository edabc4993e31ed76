package main

import (
	"github.com/pcurve/pctl/pkg/cli"
)

func main() {
	cli.Execute()
}
