// Memsim simulates two cores sharing an L2 cache and a DDR memory.
package main

import "github.com/sarchlab/memcontention/memsim/cmd"

func main() {
	cmd.Execute()
}
