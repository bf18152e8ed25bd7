package main

import "reviewsense/internal/cli"

func main() {
	cli.Execute()
}
