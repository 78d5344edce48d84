// Package link connects to the joystick peripheral over a serial port
// and feeds decoded command tokens into the shared input queue.
package link

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"
)

// bridgeMarkers identify the known peripheral bridge families in a port
// description.
var bridgeMarkers = []string{"HC-05", "HC-06", "Bluetooth"}

// Candidate is a discovered serial endpoint.
type Candidate struct {
	Name        string
	Description string
	Bridge      bool // description matches a known peripheral bridge
}

// DiscoverPorts enumerates the available serial endpoints and flags the
// ones that look like a joystick bridge. An empty list is not an error;
// the session continues keyboard-only.
func DiscoverPorts() ([]Candidate, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	candidates := make([]Candidate, 0, len(details))
	for _, d := range details {
		desc := d.Product
		if desc == "" && d.IsUSB {
			desc = fmt.Sprintf("USB %s:%s", d.VID, d.PID)
		}
		candidates = append(candidates, Candidate{
			Name:        d.Name,
			Description: desc,
			Bridge:      MatchesBridge(desc),
		})
	}
	return candidates, nil
}

// MatchesBridge reports whether a port description names a known
// peripheral bridge family.
func MatchesBridge(description string) bool {
	for _, marker := range bridgeMarkers {
		if strings.Contains(description, marker) {
			return true
		}
	}
	return false
}

// ErrNoPortSelected is returned when the operator skips port selection.
var ErrNoPortSelected = fmt.Errorf("no serial port selected")

// SelectPort picks the port to connect to. A flagged bridge port wins
// automatically; otherwise the operator chooses from the list on in/out
// (enter 'q' to skip and stay keyboard-only).
func SelectPort(candidates []Candidate, in io.Reader, out io.Writer) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoPortSelected
	}

	// Prefer the last flagged bridge, matching the reference behavior
	// when several bridges are paired.
	selected := ""
	for _, c := range candidates {
		if c.Bridge {
			selected = c.Name
		}
	}
	if selected != "" {
		return selected, nil
	}

	fmt.Fprintln(out, "Available serial ports:")
	for i, c := range candidates {
		fmt.Fprintf(out, "  [%d] %-15s %s\n", i, c.Name, c.Description)
	}
	fmt.Fprintf(out, "Select port (0-%d) or 'q' to skip: ", len(candidates)-1)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return "", ErrNoPortSelected
	}
	choice := strings.TrimSpace(scanner.Text())
	if strings.EqualFold(choice, "q") {
		return "", ErrNoPortSelected
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 0 || idx >= len(candidates) {
		return "", fmt.Errorf("invalid port selection %q", choice)
	}
	return candidates[idx].Name, nil
}
