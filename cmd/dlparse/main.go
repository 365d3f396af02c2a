// Command dlparse extracts identity fields from the decoded text of a driver's
// license or ID card barcode and prints them as JSON or YAML.
//
//	dlparse scan.txt
//	scanner-tool | dlparse --output yaml
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
