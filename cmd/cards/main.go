package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gen2brain/hdmi"
)

func main() {
	var (
		proc string
		all  bool
	)

	flag.StringVar(&proc, "proc", "/proc/asound", "The asound proc directory.")
	flag.BoolVar(&all, "all", false, "List all cards, not only HDMI playback devices.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Lists sound cards with HDMI playback devices.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
	}

	flag.Parse()

	cards, err := hdmi.EnumerateCardsIn(proc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error enumerating cards: %v\n", err)
		os.Exit(1)
	}

	if !all {
		cards = hdmi.HDMICards(cards)
	}

	if len(cards) == 0 {
		fmt.Println("No HDMI playback devices found.")

		return
	}

	for _, card := range cards {
		fmt.Print(card)
	}
}
