// Command oslab runs the operating-system algorithm labs from the terminal
// or serves them over HTTP.
package main

import "github.com/sarchlab/oslab/oslab/cmd"

func main() {
	cmd.Execute()
}
