// Package main provides the tabgrid command line tool.
//
// tabgrid reads page snapshots (positioned text chunks and ruling lines,
// one YAML document per page) and prints the tables it reconstructs.
//
// Usage:
//
//	tabgrid build pages.yaml
//	tabgrid build pages.yaml --format report --save
//	tabgrid runs list
//
// See --help for all available options.
package main

func main() {
	Execute()
}
