package main

import "github.com/kaancelik05/swimago-api-sub001/cmd"

func main() {
	cmd.Execute()
}
