package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// ConfigFile is the default configuration path.
const ConfigFile = ".storyreel.yml"

// pacePresets scale every slide duration for the wizard's pace choice.
var pacePresets = []struct {
	Label  string
	Factor float64
}{
	{Label: "standard (default reading pace)", Factor: 1.0},
	{Label: "relaxed (50% more time per slide)", Factor: 1.5},
	{Label: "brisk (25% less time per slide)", Factor: 0.75},
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .storyreel.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to storyreel! Let's configure your player.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Where the library lives.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for the story library",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	// 2. Reading pace.
	pacePrompt := promptui.Select{
		Label: "Select reading pace",
		Items: paceLabels(),
	}
	paceIdx, _, err := pacePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("pace selection: %w", err)
	}
	cfg.scaleTimings(pacePresets[paceIdx].Factor)

	// 3. Viewer port.
	portPrompt := promptui.Prompt{
		Label:    "Port for storyreel serve",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 4. Extra import excludes.
	excludePrompt := promptui.Prompt{
		Label:   "Extra import exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Import.Exclude = append(append([]string{}, DefaultExcludes...), splitAndTrim(excludeStr)...)
	}

	// 5. Optional game backend.
	backendPrompt := promptui.Prompt{
		Label:   "Game backend URL for story sync (leave blank to skip)",
		Default: "",
	}
	backend, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(backend), "/")

	if cfg.Backend.BaseURL != "" && os.Getenv(EnvPrefix+"BACKEND_TOKEN") == "" {
		fmt.Printf("\nNote: Set %sBACKEND_TOKEN in your environment before running storyreel sync.\n", EnvPrefix)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(ConfigFile); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", ConfigFile)
	return cfg, nil
}

func paceLabels() []string {
	labels := make([]string, len(pacePresets))
	for i, p := range pacePresets {
		labels[i] = p.Label
	}
	return labels
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// scaleTimings multiplies every slide duration by f.
func (c *Config) scaleTimings(f float64) {
	scale := func(v int) int { return int(float64(v) * f) }
	c.Timings.ImageMS = scale(c.Timings.ImageMS)
	c.Timings.Heading1MS = scale(c.Timings.Heading1MS)
	c.Timings.Heading2MS = scale(c.Timings.Heading2MS)
	c.Timings.Heading3MS = scale(c.Timings.Heading3MS)
	c.Timings.ParagraphMS = scale(c.Timings.ParagraphMS)
	c.Timings.FallbackMS = scale(c.Timings.FallbackMS)
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
