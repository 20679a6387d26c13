// Command blogctl is the operator CLI: schema migration, account repair,
// demo content and the legacy MongoDB import.
package main

import "github.com/debtprotection/blog-core/cmd/blogctl/commands"

func main() {
	commands.Execute()
}
