// Command epostctl submits letters to the E-POST API and queries their
// status. Credentials and endpoint are read from EPOST_* environment
// variables or a .env file.
//
//	epostctl login
//	epostctl sms-code
//	epostctl set-password <new-password> <sms-code>
//	epostctl send [flags] <file.pdf>
//	epostctl status <letter-id>
//	epostctl status-batch [--only-issues] <letter-id>...
//	epostctl status-range [--only-issues] <from> <till>
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args, DefaultStreams()); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
