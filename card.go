package hdmi

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	cardRegex = regexp.MustCompile(`^\s*(\d+)\s+\[\s*([^]]*?)\s*\]:\s*(.*)`)
	// Lines like "00-01: HDMI 0 : HDMI 0 : playback 1"
	pcmRegex = regexp.MustCompile(`^(\d+)-(\d+): (.*?) :.*`)
)

// SoundCardDevice is a single PCM device on a sound card.
type SoundCardDevice struct {
	ID          int
	Name        string
	Description string
	IsPlayback  bool
}

// String returns a human-readable representation of the SoundCardDevice.
func (d SoundCardDevice) String() string {
	direction := "Capture"
	if d.IsPlayback {
		direction = "Playback"
	}

	return fmt.Sprintf("  Device %d: %s (%s) [%s]", d.ID, d.Name, d.Description, direction)
}

// SoundCard is an enumerated sound card with its devices.
type SoundCard struct {
	ID          int
	Name        string
	Description string
	Devices     []SoundCardDevice
}

// String returns a human-readable representation of the SoundCard.
func (c SoundCard) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Card %d: %s (%s)\n", c.ID, c.Name, c.Description))
	for _, dev := range c.Devices {
		sb.WriteString(dev.String() + "\n")
	}

	return sb.String()
}

// HDMIDevices returns the playback devices of c whose card or device description mentions HDMI.
func (c SoundCard) HDMIDevices() []SoundCardDevice {
	cardIsHDMI := isHDMI(c.Name) || isHDMI(c.Description)

	var devices []SoundCardDevice
	for _, dev := range c.Devices {
		if dev.IsPlayback && (cardIsHDMI || isHDMI(dev.Description)) {
			devices = append(devices, dev)
		}
	}

	return devices
}

// EnumerateCards scans /proc/asound to find all available sound cards and their PCM devices.
func EnumerateCards() ([]SoundCard, error) {
	return EnumerateCardsIn("/proc/asound")
}

// EnumerateCardsIn reads the cards and pcm listings from an asound proc directory.
func EnumerateCardsIn(dir string) ([]SoundCard, error) {
	cardsFile := dir + "/cards"
	cardsContent, err := os.ReadFile(cardsFile)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", cardsFile, err)
	}

	pcmFile := dir + "/pcm"
	pcmContent, err := os.ReadFile(pcmFile)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", pcmFile, err)
	}

	return parseCards(string(cardsContent), string(pcmContent)), nil
}

// HDMICards returns the cards that expose at least one HDMI playback device,
// with their device lists reduced to those devices.
func HDMICards(cards []SoundCard) []SoundCard {
	var result []SoundCard
	for _, card := range cards {
		devices := card.HDMIDevices()
		if len(devices) == 0 {
			continue
		}

		card.Devices = devices
		result = append(result, card)
	}

	return result
}

func parseCards(cardsContent, pcmContent string) []SoundCard {
	cardMap := make(map[int]*SoundCard)

	for _, line := range strings.Split(cardsContent, "\n") {
		matches := cardRegex.FindStringSubmatch(line)
		if len(matches) != 4 {
			continue
		}

		id, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}

		cardMap[id] = &SoundCard{
			ID:          id,
			Name:        strings.TrimSpace(matches[2]),
			Description: strings.TrimSpace(matches[3]),
		}
	}

	for _, line := range strings.Split(pcmContent, "\n") {
		matches := pcmRegex.FindStringSubmatch(line)
		if len(matches) < 4 {
			continue
		}

		cardID, _ := strconv.Atoi(matches[1])
		devID, _ := strconv.Atoi(matches[2])

		card, ok := cardMap[cardID]
		if !ok {
			continue
		}

		description := strings.TrimSpace(matches[3])

		// A single PCM device can have both playback and capture streams.
		if strings.Contains(line, "playback") {
			card.Devices = append(card.Devices, SoundCardDevice{
				ID:          devID,
				Name:        fmt.Sprintf("pcm%dp", devID),
				Description: description,
				IsPlayback:  true,
			})
		}

		if strings.Contains(line, "capture") {
			card.Devices = append(card.Devices, SoundCardDevice{
				ID:          devID,
				Name:        fmt.Sprintf("pcm%dc", devID),
				Description: description,
				IsPlayback:  false,
			})
		}
	}

	cardIDs := make([]int, 0, len(cardMap))
	for id := range cardMap {
		cardIDs = append(cardIDs, id)
	}

	sort.Ints(cardIDs)

	result := make([]SoundCard, 0, len(cardIDs))
	for _, id := range cardIDs {
		result = append(result, *cardMap[id])
	}

	return result
}

func isHDMI(s string) bool {
	return strings.Contains(strings.ToUpper(s), "HDMI")
}
