package main

import (
	"bloglytics/internal/cmd"
)

func main() {
	cmd.Run()
}
