// Command depcore resolves dependency job queues against a pool and
// reports either a transaction plan or an unsatisfiability report.
package main

import "depcore/internal/cli"

func main() {
	cli.Execute()
}
