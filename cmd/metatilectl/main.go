// Command metatilectl inspects and edits metatile projects from the shell.
package main

func main() {
	execute()
}
