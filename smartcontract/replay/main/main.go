package main

import (
	"fmt"
	"os"

	"pouw.net/smartcontract/replay/main/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}
