// This program is the command line front-end for a node. Keys are handled
// locally and the node state is read through the node's public api.
package main

import "github.com/abcchain/abc/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
