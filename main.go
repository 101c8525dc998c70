package main

import "github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/cmd"

func main() {
	cmd.Execute()
}
