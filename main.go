package main

import "github.com/fastn-ai/fastn-community-sub000/internal/cmd"

func main() {
	cmd.Execute()
}
