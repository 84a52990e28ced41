package main

import "os"

func main() {
	if err := runApp(); err != nil {
		os.Exit(1)
	}
}
