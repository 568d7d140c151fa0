package main

import "github.com/oshokin/winutils-installer/cmd/winutils-installer/cmd"

func main() {
	cmd.Execute()
}
