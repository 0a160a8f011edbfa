// Command polyops evaluates Conway operator recipes, exports STL meshes
// and serves evaluation over HTTP.
package main

func main() {
	Execute()
}
