// bridgectl drives the build, test, and benchmark pipelines for the
// engine artifact, and inspects built artifacts.
package main

func main() {
	Execute()
}
