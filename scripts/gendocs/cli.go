package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/helixlab/internal/cli"
	"github.com/leapstack-labs/helixlab/internal/cli/commands"
	"github.com/leapstack-labs/helixlab/internal/cli/config"
	"github.com/leapstack-labs/helixlab/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commandSections adds reference material that lives outside cobra to a
// command's page.
var commandSections = map[string]func(*MarkdownWriter){
	"edit": editorSection,
	"view": keyBindingsSection,
}

// generateCLIDocs writes index.md and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string]*MarkdownWriter{"index": cliIndexPage(root)}
	for _, cmd := range documented(root) {
		pages[cmd.Name()] = commandPage(cmd)
	}

	for name, page := range pages {
		path := filepath.Join(outDir, name+".md")
		if err := os.WriteFile(path, page.Bytes(), 0600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("  Generated %s.md", name)
	}
	return nil
}

func documented(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.IsAvailableCommand() {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func cliIndexPage(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for helixlab")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(root) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf(
		"A flag with a config key overrides that key. Values resolve flag first, then the %s environment variable, then %s, then the built-in default. See the [configuration reference](/reference/configuration) for every key.",
		InlineCode(config.EnvPrefix+"*"), InlineCode(config.ConfigFileName)))

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error (details on stderr)"},
	})
	return w
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if section, ok := commandSections[cmd.Name()]; ok {
		section(w)
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	w.Paragraph("Global options are listed in the [CLI reference](/cli/).")
	return w
}

// writeFlagsTable lists flags with the config key each one overrides.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = InlineCode("-" + f.Shorthand)
		}
		key, env := "", ""
		if k := configKey(f); k != "" {
			key, env = InlineCode(k), InlineCode(envName(k))
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, flagDefault(f), key, env, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Config key", "Environment", "Description"}, rows)
}

// configKey returns the config key f overrides, or "" when it has none.
// Command flags declare theirs with an annotation; global flags load
// straight into the config under FlagKey.
func configKey(f *pflag.Flag) string {
	if keys := f.Annotations[config.FlagKeyAnnotation]; len(keys) > 0 {
		return keys[0]
	}
	key := config.FlagKey(f.Name)
	if _, ok := config.Defaults()[key]; ok {
		return key
	}
	return ""
}

func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "0", "[]":
		return ""
	}
	return InlineCode(f.DefValue)
}

func editorSection(w *MarkdownWriter) {
	w.Header(2, "Editor Commands")
	var rows [][]string
	for _, c := range commands.EditCommands {
		aliases := make([]string, 0, len(c.Aliases))
		for _, a := range c.Aliases {
			aliases = append(aliases, InlineCode(a))
		}
		rows = append(rows, []string{InlineCode(c.Usage()), strings.Join(aliases, ", "), cleanDescription(c.Description)})
	}
	w.Table([]string{"Command", "Aliases", "Description"}, rows)
}

func keyBindingsSection(w *MarkdownWriter) {
	w.Header(2, "Key Bindings")
	var rows [][]string
	for _, b := range tui.KeyBindings() {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		rows = append(rows, []string{InlineCode(h.Key), h.Desc})
	}
	w.Table([]string{"Key", "Action"}, rows)
}

// dedent strips the two-space indent cobra examples are written with.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
