// Package main provides the CLI entry point for organizador.
package main

func main() {
	Execute()
}
