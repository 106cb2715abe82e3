// Command planka reads and edits Planka boards from the command line.
package main

import "github.com/mesh-intelligence/planka/internal/cli"

func main() {
	cli.Execute()
}
