// Command buddyctl drives a buddy pool from allocation traces and random
// workloads and reports its statistics and layout.
package main

func main() {
	execute()
}
