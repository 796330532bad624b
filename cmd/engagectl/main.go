// Command engagectl is the operator CLI for the compliance calendar.
package main

import "github.com/meridiancs/engage/internal/interfaces/cli"

func main() {
	cli.Execute()
}
