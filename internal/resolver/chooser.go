package resolver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/duprtools/duprpool/internal/dupr"
)

// Chooser resolves an ambiguous set of candidates, ranked best first.
// A nil result means "skip": the current search stage yields no match.
type Chooser interface {
	Choose(searchName string, candidates []RankedCandidate) *dupr.Candidate
}

// RankedCandidate pairs a search hit with its similarity score against the
// searched name.
type RankedCandidate struct {
	dupr.Candidate
	Score float64
}

// NewChooser picks the ambiguity strategy for this run: interactive
// selection when attached to a terminal, conservative auto-accept
// otherwise.
func NewChooser(maxDisplay int, threshold float64) Chooser {
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return &TerminalChooser{In: os.Stdin, Out: os.Stdout, MaxDisplay: maxDisplay}
	}
	return AutoChooser{Threshold: threshold}
}

var (
	_ Chooser = AutoChooser{}
	_ Chooser = (*TerminalChooser)(nil)
)

// AutoChooser accepts the top-ranked candidate only when its score clears
// the near-certainty threshold. Unattended runs never guess under
// uncertainty.
type AutoChooser struct {
	Threshold float64
}

func (a AutoChooser) Choose(searchName string, candidates []RankedCandidate) *dupr.Candidate {
	if len(candidates) == 0 {
		return nil
	}
	top := candidates[0]
	if top.Score >= a.Threshold {
		log.Debug("Auto-accepting ambiguous match", "search", searchName, "match", top.FullName, "score", top.Score)
		return &top.Candidate
	}
	log.Debug("No candidate above auto-accept threshold", "search", searchName, "best", top.FullName, "score", top.Score)
	return nil
}

// TerminalChooser prompts the operator to pick the right player.
type TerminalChooser struct {
	In         io.Reader
	Out        io.Writer
	MaxDisplay int
}

func (t *TerminalChooser) Choose(searchName string, candidates []RankedCandidate) *dupr.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	display := candidates
	if t.MaxDisplay > 0 && len(display) > t.MaxDisplay {
		display = display[:t.MaxDisplay]
	}

	fmt.Fprintf(t.Out, "\nFound %d possible matches for %q:\n", len(candidates), searchName)
	for i, c := range display {
		fmt.Fprintln(t.Out, formatOption(c, i+1))
	}
	if hidden := len(candidates) - len(display); hidden > 0 {
		fmt.Fprintf(t.Out, "  ... and %d more\n", hidden)
	}
	fmt.Fprintf(t.Out, "  %d. Skip (use default rating)\n\n", len(display)+1)

	scanner := bufio.NewScanner(t.In)
	for {
		fmt.Fprintf(t.Out, "Select [1-%d]: ", len(display)+1)
		if !scanner.Scan() {
			// End of input aborts the prompt; treat as skip.
			fmt.Fprintln(t.Out, "\nSelection cancelled.")
			return nil
		}

		choice := strings.TrimSpace(scanner.Text())
		if choice == "" {
			return nil
		}

		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(display)+1 {
			fmt.Fprintf(t.Out, "Please enter a number between 1 and %d\n", len(display)+1)
			continue
		}
		if n == len(display)+1 {
			return nil
		}

		selected := display[n-1]
		fmt.Fprintf(t.Out, "Selected: %s\n", selected.FullName)
		return &selected.Candidate
	}
}

func formatOption(c RankedCandidate, index int) string {
	rating := "NR"
	if best := c.BestRating(); best != nil {
		rating = fmt.Sprintf("%.2f", *best)
	}
	location := c.ShortAddress
	if location == "" {
		location = "Unknown location"
	}
	return fmt.Sprintf("  %d. %s (%s) - %s [%.0f%% match]", index, c.FullName, rating, location, c.Score*100)
}
