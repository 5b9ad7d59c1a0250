package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

func main() {
	bin, err := exec.LookPath("ganttcore")
	if err != nil {
		fmt.Fprintln(os.Stderr, "gnt: ganttcore not found on PATH")
		os.Exit(1)
	}
	if err := syscall.Exec(bin, append([]string{"ganttcore"}, os.Args[1:]...), os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "gnt: %v\n", err)
		os.Exit(1)
	}
}
