package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/helixlab/internal/cli/config"
)

// keyDescriptions documents each configuration key.
var keyDescriptions = map[string]string{
	"analysis":                 "Path of a YAML analysis fixture; empty selects the built-in demo",
	"verbose":                  "Verbose output",
	"log_level":                "Log level: debug, info, warn, error",
	"output":                   "Output format: auto, text, markdown, json",
	"helix.resolution":         "Samples per strand",
	"helix.turns":              "Helix sweep in half-turns",
	"helix.pitch":              "Vertical distance between samples",
	"helix.radius":             "Backbone radius",
	"helix.base_inset":         "Distance base markers sit inside the backbone",
	"helix.marker_offset":      "Distance annotation markers sit outside the backbone",
	"helix.label_offset":       "Distance annotation labels sit outside the backbone",
	"scene.speed":              "Rotation speed in radians per second",
	"scene.min_distance":       "Closest camera zoom",
	"scene.max_distance":       "Farthest camera zoom",
	"history.limit":            "Maximum undo steps; the oldest is dropped when full",
	"metrics.site_count":       "Baseline PAM site count",
	"metrics.high_score_count": "Baseline high-score gRNA count",
	"metrics.avg_on_target":    "Baseline average on-target score",
	"metrics.avg_off_target":   "Baseline average off-target risk",
	"ui.port":                  "Web viewer port",
	"ui.auto_open":             "Open the browser when the web viewer starts",
	"ui.watch":                 "Reload the analysis fixture when it changes (web)",
	"ui.session_secret":        "Key for the camera cookie",
	"ui.frame_interval":        "Web frame interval",
	"tui.frame_interval":       "Terminal frame interval",
	"tui.watch":                "Reload the analysis fixture when it changes (terminal)",
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, configPage().Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}

func configPage() *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "helixlab configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("helixlab reads %s from the working directory or the nearest parent. "+
		"Values layer as defaults, then the file, then %s environment variables, then flags.",
		InlineCode(config.ConfigFileName), InlineCode(config.EnvPrefix+"*")))

	defaults := config.Defaults()
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bySection := map[string][][]string{}
	var sections []string
	for _, key := range keys {
		section := "General"
		if i := strings.IndexByte(key, '.'); i > 0 {
			section = key[:i]
		}
		if _, ok := bySection[section]; !ok {
			sections = append(sections, section)
		}
		bySection[section] = append(bySection[section], []string{
			InlineCode(key),
			InlineCode(envName(key)),
			defaultValue(defaults[key]),
			cleanDescription(keyDescriptions[key]),
		})
	}

	for _, section := range sections {
		w.Header(2, section)
		w.Table([]string{"Key", "Environment", "Default", "Description"}, bySection[section])
	}

	w.Header(2, "Example")
	w.CodeBlock("yaml", `analysis: fixtures/tp53.yaml
output: text
helix:
  resolution: 160
  turns: 12
history:
  limit: 64
ui:
  port: 9000
  auto_open: false`)
	return w
}

// envName returns the environment variable that sets key.
func envName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

func defaultValue(v any) string {
	s := fmt.Sprint(v)
	if s == "" {
		return "-"
	}
	return InlineCode(s)
}
