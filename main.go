package main

import (
	"github.com/xmazu/envy/cmd"
)

var Version string

func main() {
	cmd.SetVersion(Version)
	cmd.Execute()
}
