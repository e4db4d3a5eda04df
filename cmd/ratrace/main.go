package main

import "ratrace/cmd/ratrace/root"

func main() {
	root.Execute()
}
