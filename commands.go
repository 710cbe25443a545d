package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/duprtools/duprpool/internal/config"
	"github.com/duprtools/duprpool/internal/dupr"
	"github.com/duprtools/duprpool/internal/input"
	"github.com/duprtools/duprpool/internal/names"
	"github.com/duprtools/duprpool/internal/pools"
	"github.com/duprtools/duprpool/internal/registry"
	"github.com/duprtools/duprpool/internal/render"
	"github.com/duprtools/duprpool/internal/resolver"
)

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheRemoveCmd)
	rootCmd.AddCommand(ladderCmd)
	rootCmd.AddCommand(partnerCmd)
	rootCmd.AddCommand(fixedCmd)
	rootCmd.AddCommand(cacheCmd)
}

// app holds the wired-up services a resolution command needs.
type app struct {
	cfg   config.Config
	cache *registry.Registry
	res   *resolver.Resolver
}

func newApp() *app {
	cfg := config.Load()
	client := dupr.NewClient(cfg.Token, dupr.Options{
		BaseURL:       cfg.APIURL,
		RequestDelay:  cfg.RequestDelay,
		RetryCount:    cfg.RetryCount,
		RetryDelay:    cfg.RetryDelay,
		RateLimitWait: cfg.RateLimitWait,
	})
	cache := registry.Load(cfg.RegistryFile)
	matcher := names.NewMatcher(cfg.NicknamesFile)
	overrides := config.LoadOverrides(cfg.OverridesFile)
	if cfg.User != nil {
		overrides[config.NormalizeKey(cfg.User.Name)] = *cfg.User
	}

	var chooser resolver.Chooser
	if flagNonInteractive {
		chooser = resolver.AutoChooser{Threshold: cfg.AutoAcceptThreshold}
	} else {
		chooser = resolver.NewChooser(cfg.MaxChoices, cfg.AutoAcceptThreshold)
	}

	res := resolver.New(client, cache, matcher, chooser, overrides, resolver.Options{
		DefaultRating:   cfg.DefaultRating,
		PrimaryRegion:   regionFilter(cfg.PrimaryRegion),
		SecondaryRegion: regionFilter(cfg.SecondaryRegion),
	})
	return &app{cfg: cfg, cache: cache, res: res}
}

// close flushes the player cache. Called via defer so lookups resolved
// before an error are not lost.
func (a *app) close() {
	a.cache.Save()
}

func (a *app) outputPath(name string) string {
	dir := a.cfg.OutputDir
	if flagOutput != "" {
		dir = flagOutput
	}
	return filepath.Join(dir, name)
}

func (a *app) resolveAll(rawNames []string) ([]resolver.ResolvedPlayer, error) {
	players := make([]resolver.ResolvedPlayer, 0, len(rawNames))
	for _, name := range rawNames {
		p, err := a.res.Resolve(name)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

func regionFilter(r config.Region) *dupr.Location {
	if r.Text == "" {
		return nil
	}
	return &dupr.Location{Lat: r.Lat, Lng: r.Lng, Text: r.Text}
}

func readLines() ([]string, error) {
	if flagFile != "" {
		return input.ReadFile(flagFile)
	}
	fmt.Println("Paste the player list, then press Enter on an empty line:")
	return input.ReadPasted(os.Stdin)
}

// friendlyResolveError turns the auth sentinel into an actionable message.
func friendlyResolveError(err error) error {
	if errors.Is(err, dupr.ErrAuthExpired) {
		return errors.New("DUPR token rejected; set DUPR_TOKEN (or DUPR_TOKEN_FILE) to a fresh token and rerun")
	}
	return err
}

var ladderCmd = &cobra.Command{
	Use:   "ladder",
	Short: "Build ladder pools from a plain player list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		defer a.close()

		lines, err := readLines()
		if err != nil {
			return err
		}
		players, err := a.resolveAll(input.ParseLadder(lines))
		if err != nil {
			return friendlyResolveError(err)
		}
		poolList := pools.DistributePlayers(players, a.cfg.Pools.TargetSize, a.cfg.Pools.MinSize)
		return render.WriteLadder(a.outputPath("ladder.html"), "Ladder Pools", poolList)
	},
}

var partnerCmd = &cobra.Command{
	Use:   "partner",
	Short: "Build team pools from a partner list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		defer a.close()

		lines, err := readLines()
		if err != nil {
			return err
		}

		var entries []input.TeamEntry
		if input.DetectFormat(lines) == input.FormatTeams {
			entries = input.ParseFormattedTeams(lines)
		} else {
			var unpaired string
			entries, unpaired = input.PairNames(lines)
			if unpaired != "" {
				log.Warn("Odd number of players, last one has no partner", "player", unpaired)
			}
		}
		if len(entries) == 0 {
			return errors.New("no teams found in input")
		}

		teams := make([]pools.Team, 0, len(entries))
		for _, e := range entries {
			p1, err := a.res.Resolve(e.Player1)
			if err != nil {
				return friendlyResolveError(err)
			}
			p2, err := a.res.Resolve(e.Player2)
			if err != nil {
				return friendlyResolveError(err)
			}
			teams = append(teams, pools.Team{
				Player1: p1,
				Player2: p2,
				Rating:  pools.TeamRating(p1.Rating, p2.Rating),
			})
		}

		poolList := pools.DistributeTeams(teams,
			a.cfg.Pools.TargetSize, a.cfg.Pools.MinSize,
			a.cfg.Pools.CourtsPerPool, a.cfg.Pools.PointsBySize)
		return render.WriteTeams(a.outputPath("teams.html"), "Partner Pools", poolList)
	},
}

var fixedCmd = &cobra.Command{
	Use:   "fixed",
	Short: "Build fixed pools of four from a plain player list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		defer a.close()

		lines, err := readLines()
		if err != nil {
			return err
		}
		rawNames := input.ParseLadder(lines)
		if len(rawNames)%pools.FixedPoolSize != 0 {
			return fmt.Errorf("fixed pools need a multiple of %d players, got %d", pools.FixedPoolSize, len(rawNames))
		}
		players, err := a.resolveAll(rawNames)
		if err != nil {
			return friendlyResolveError(err)
		}
		poolList := pools.DistributeFixedPools(players)
		return render.WriteLadder(a.outputPath("fixed.html"), "Fixed Pools", poolList)
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the player cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached players",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		cache := registry.Load(cfg.RegistryFile)

		entries := cache.All()
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			e := entries[k]
			rating := "NR"
			if e.Rating != nil {
				rating = fmt.Sprintf("%.3f", *e.Rating)
			}
			fmt.Printf("%-30s -> %s (%s) rating=%s updated=%s\n",
				k, e.ResolvedName, e.SourceID, rating, e.LastUpdated)
		}
		fmt.Printf("%d cached players\n", len(keys))
		return nil
	},
}

var cacheRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a player from the cache",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		cache := registry.Load(cfg.RegistryFile)

		name := strings.Join(args, " ")
		if !cache.Remove(name) {
			return fmt.Errorf("no cached entry for %q", name)
		}
		cache.Save()
		fmt.Printf("Removed %q from the cache\n", name)
		return nil
	},
}
