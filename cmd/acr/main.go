package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gen2brain/hdmi"
)

func main() {
	var (
		rate uint
		pclk uint
		deep uint
	)

	flag.UintVar(&rate, "rate", 0, "The sample rate in Hz. All supported rates if zero.")
	flag.UintVar(&pclk, "pclk", 74250, "The pixel clock in kHz.")
	flag.UintVar(&deep, "deep", uint(hdmi.DefaultDeepColor), "The deep color factor (100, 125, 150 or 200).")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Prints the HDMI audio clock regeneration values (N/CTS).")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
	}

	flag.Parse()

	rates := hdmi.SupportedRates
	if rate != 0 {
		rates = []uint32{uint32(rate)}
	}

	fmt.Printf("Pixel clock %d kHz, deep color %d:\n", pclk, deep)
	fmt.Printf("%-10s %-8s %-10s\n", "Rate", "N", "CTS")

	for _, r := range rates {
		acr, err := hdmi.ComputeACR(r, uint32(pclk), hdmi.DeepColor(deep))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%-10d %-8d %-10d\n", r, acr.N, acr.CTS)
	}
}
