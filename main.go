package main

import "github.com/KaramelBytes/poimap-cli/cmd"

func main() {
	cmd.Execute()
}
