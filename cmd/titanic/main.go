// Package main provides the entry point for the titanic CLI.
//
// titanic trains the passenger survival classification pipeline and scores
// new passenger records with a saved pipeline.
//
// Usage:
//
//	titanic train --data raw.csv
//	titanic predict --model pipeline.gob passengers.csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
