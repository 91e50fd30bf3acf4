// Command aemscan probes a list of hosts for Adobe Experience Manager
// fingerprints under a global rate ceiling and a bounded worker pool.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
