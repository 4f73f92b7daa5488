package main

import (
	"fmt"
	"io"

	"github.com/fagongzi/buddy"
)

func printStats(w io.Writer, s buddy.Stats) {
	fmt.Fprintf(w, "Pool:        order %d, %d bytes\n", s.Order, s.Size)
	fmt.Fprintf(w, "Reserved:    %d bytes in %d blocks\n", s.ReservedBytes, s.ReservedBlocks)
	fmt.Fprintf(w, "Available:   %d bytes in %d blocks\n", s.AvailableBytes, s.AvailableBlocks)
	fmt.Fprintf(w, "Allocs:      %d\n", s.Allocs)
	fmt.Fprintf(w, "Frees:       %d\n", s.Frees)
	fmt.Fprintf(w, "Splits:      %d\n", s.Splits)
	fmt.Fprintf(w, "Merges:      %d\n", s.Merges)
	fmt.Fprintf(w, "Exhausted:   %d\n", s.Exhausted)
	fmt.Fprintf(w, "Oversized:   %d\n", s.OutOfCapacity)
}

func printLayout(w io.Writer, p *buddy.Pool) {
	fmt.Fprintln(w, "Blocks:")
	for _, b := range p.Blocks() {
		fmt.Fprintf(w, "  %#012x  order %2d  %12d bytes  %s\n", b.Offset, b.Order, b.Size(), b.State)
	}
	fmt.Fprintln(w, "Free lists:")
	for order := uint(buddy.SmallestK); order <= p.Order(); order++ {
		if n := len(p.FreeList(order)); n > 0 {
			fmt.Fprintf(w, "  order %2d: %d\n", order, n)
		}
	}
}
