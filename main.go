// Package main points at the riscv-calyx command.
//
// For the full CLI, use: go run ./cmd/riscv-calyx
package main

import "fmt"

func main() {
	fmt.Println("riscv-calyx - RISC-V programs for Calyx designs")
	fmt.Println("Run 'go run ./cmd/riscv-calyx' for the full CLI.")
}
