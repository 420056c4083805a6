package main

import (
	"github.com/smallyu/go-ecckit/cmd/ecckit/cmd"
)

func main() {
	cmd.Execute()
}
