// Command lawctl is the operator CLI: seeding, content inspection and
// reset, inquiry triage, and admin credentials.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
