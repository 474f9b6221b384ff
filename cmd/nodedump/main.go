// Command nodedump inspects serialized node records: given a raw page-memory dump, it
// walks the size-prefixed record frames and prints each node's kind, parent key, and hash.
package main

func main() {
	execute()
}
