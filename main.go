// Command sitepdf crawls a website and merges every visited page into one PDF.
package main

import "github.com/gaurav-prasanna/sitepdf/cmd"

func main() {
	cmd.Execute()
}
