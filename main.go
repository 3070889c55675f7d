package main

import "github.com/cgb78910/Interest-Calculator/internal/cli"

func main() {
	cli.Execute()
}
