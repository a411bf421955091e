// Command importctl runs student and employee imports from the command line.
//
//	importctl template student -o students.csv
//	importctl preview student roster.xlsx --school sch-1
//	importctl execute student roster.xlsx --school sch-1 --skip-invalid --report errors.csv
//	importctl migrate
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
