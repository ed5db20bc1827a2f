package main

import (
	"github.com/sumup/rack-rpc/cmd/rackrpcd/cmd"
)

func main() {
	cmd.Execute()
}
