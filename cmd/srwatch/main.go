package main

import "github.com/example/sevenrooms-watcher/cmd"

func main() {
	cmd.Execute()
}
