package main

import "golang-pingcompare/cmd"

func main() {
	cmd.Execute()
}
