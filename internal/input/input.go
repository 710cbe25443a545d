// Package input parses player and team lists from files or pasted text.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// TeamEntry is a pair of raw player names read from a partner list.
type TeamEntry struct {
	Player1 string
	Player2 string
}

// Format describes how a pasted list is laid out.
type Format string

const (
	FormatTeams Format = "formatted_teams"
	FormatNames Format = "plain_names"
)

// ReadFile reads non-empty trimmed lines from a file.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open player list: %w", err)
	}
	defer f.Close()

	lines, err := readLines(f, false)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("player list is empty: %s", path)
	}
	log.Debug("Read player list", "path", path, "lines", len(lines))
	return lines, nil
}

// ReadPasted reads lines from a reader until a blank line after content or
// end of input, the way an operator pastes a list into the terminal.
func ReadPasted(r io.Reader) ([]string, error) {
	lines, err := readLines(r, true)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no input provided")
	}
	return lines, nil
}

func readLines(r io.Reader, stopOnBlank bool) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if stopOnBlank && len(lines) > 0 {
				break
			}
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

// DetectFormat reports whether a list is "Player1 / Player2" formatted or
// plain names. Any line containing a slash makes the whole list formatted.
func DetectFormat(lines []string) Format {
	for _, line := range lines {
		if strings.Contains(line, "/") {
			return FormatTeams
		}
	}
	return FormatNames
}

// ParseLadder validates a plain list of player names.
func ParseLadder(lines []string) []string {
	players := make([]string, 0, len(lines))
	for _, line := range lines {
		if name := strings.TrimSpace(line); name != "" {
			players = append(players, name)
		}
	}
	return players
}

// ParseFormattedTeams parses "Player1 / Player2" lines, skipping anything
// that does not look like a team.
func ParseFormattedTeams(lines []string) []TeamEntry {
	var teams []TeamEntry
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "/") {
			if line != "" {
				log.Debug("Skipping non-team line", "line", line)
			}
			continue
		}
		parts := strings.Split(line, "/")
		if len(parts) != 2 {
			log.Debug("Skipping malformed team line", "line", line)
			continue
		}
		p1 := strings.TrimSpace(parts[0])
		p2 := strings.TrimSpace(parts[1])
		if p1 != "" && p2 != "" {
			teams = append(teams, TeamEntry{Player1: p1, Player2: p2})
		}
	}
	return teams
}

// PairNames builds teams from a plain name list by pairing consecutive
// names. An odd trailing name is returned as unpaired.
func PairNames(lines []string) (teams []TeamEntry, unpaired string) {
	players := ParseLadder(lines)
	for i := 0; i+1 < len(players); i += 2 {
		teams = append(teams, TeamEntry{Player1: players[i], Player2: players[i+1]})
	}
	if len(players)%2 == 1 {
		unpaired = players[len(players)-1]
	}
	return teams, unpaired
}
