package main

import "github.com/cameronsjo/conanmerge/internal/cmd"

func main() {
	cmd.Execute()
}
