package main

import "github.com/jsphweid/pitchscribe/cmd"

func main() {
	cmd.Execute()
}
