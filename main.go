package main

import "github.com/vibast-solutions/ms-go-marketplace/cmd"

func main() {
	cmd.Execute()
}
