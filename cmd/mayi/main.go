package main

import (
	"github.com/cardfold/mayi-go/internal/cli"
)

func main() {
	cli.Execute()
}
