// Command kcore simulates the process subsystem and scheduler core of a
// small teaching kernel: a fixed-size process table driven by one of four
// interchangeable scheduling policies, exercised through an interactive
// demo session.
package main

func main() {
	Execute()
}
