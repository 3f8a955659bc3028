// Command biblebee is the admin tool for scripture imports and enrollment
package main

func main() {
	Execute()
}
