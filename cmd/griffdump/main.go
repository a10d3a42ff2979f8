// Command griffdump inspects Griff files: per-event layout, raw sections,
// decoded events and the recorded setup.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
