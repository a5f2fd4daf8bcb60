package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vanderheijden86/knowtree/pkg/analysis"
	"github.com/vanderheijden86/knowtree/pkg/config"
	"github.com/vanderheijden86/knowtree/pkg/export"
	"github.com/vanderheijden86/knowtree/pkg/layout"
	"github.com/vanderheijden86/knowtree/pkg/provider"
	"github.com/vanderheijden86/knowtree/pkg/ui"
	"github.com/vanderheijden86/knowtree/pkg/version"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	topic := flag.String("topic", "", "Topic to generate (skips the interactive prompt)")
	configPath := flag.String("config", "", "Config file path (default: discover .knowtree/config.yml)")
	modelName := flag.String("model", "", "Override the provider model")
	noCache := flag.Bool("no-cache", false, "Disable the response cache even if configured")
	exportDir := flag.String("export-all", "", "Export SVG, PNG, Markdown and HTML into a directory and exit")
	exportHTML := flag.String("export-html", "", "Export an interactive HTML file and exit")
	exportSVG := flag.String("export-svg", "", "Export an SVG file and exit")
	exportPNG := flag.String("export-png", "", "Export a PNG file and exit")
	exportMD := flag.String("export-md", "", "Export a Markdown outline and exit")
	serveAddr := flag.String("serve", "", "Serve the export directory with live reload (e.g., localhost:8080; use with --export-all)")
	statsOnly := flag.Bool("stats", false, "Print tree shape metrics and exit (use with --topic)")
	flag.Parse()

	if *help {
		fmt.Println("Usage: kt [options]")
		fmt.Println("\nAn AI-generated knowledge tree explorer.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("kt %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgPath, err := config.Discover(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", cfgPath, err)
		os.Exit(1)
	}
	if *modelName != "" {
		cfg.Provider.Model = *modelName
	}

	p, closeCache, err := buildProvider(cfg, *noCache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeCache()

	headless := *exportDir != "" || *exportHTML != "" || *exportSVG != "" || *exportPNG != "" || *exportMD != "" || *statsOnly

	if headless {
		opts := headlessOptions{
			dir:   *exportDir,
			html:  *exportHTML,
			svg:   *exportSVG,
			png:   *exportPNG,
			md:    *exportMD,
			serve: *serveAddr,
			stats: *statsOnly,
		}
		if err := runHeadless(p, *topic, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	theme := ui.ThemeByName(cfg.Theme, lipgloss.DefaultRenderer())
	prog := tea.NewProgram(ui.NewModel(p, ui.Options{
		Topic:   *topic,
		Theme:   theme,
		ZoomMin: cfg.Zoom.Min,
		ZoomMax: cfg.Zoom.Max,
	}), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildProvider wires the configured provider, attaching the sqlite
// response cache when enabled.
func buildProvider(cfg config.Config, noCache bool) (provider.Provider, func(), error) {
	var cache *provider.Cache
	closeCache := func() {}

	if cfg.Cache.Enabled && !noCache {
		c, err := provider.OpenCache(config.ExpandHome(cfg.Cache.Path))
		if err != nil {
			return nil, nil, fmt.Errorf("open response cache: %w", err)
		}
		cache = c
		closeCache = func() { c.Close() }
	}

	apiKey := ""
	if cfg.Provider.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.Provider.APIKeyEnv)
	}
	p, err := provider.NewOpenAI(provider.OpenAIOptions{
		APIKey:  apiKey,
		Model:   cfg.Provider.Model,
		BaseURL: cfg.Provider.BaseURL,
		Cache:   cache,
	})
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return p, closeCache, nil
}

type headlessOptions struct {
	dir   string
	html  string
	svg   string
	png   string
	md    string
	serve string
	stats bool
}

// runHeadless generates a tree once and writes the requested exports.
func runHeadless(p provider.Provider, topic string, opts headlessOptions) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		var err error
		if topic, err = promptTopic(); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Generating tree for %q...\n", topic)
	tree, err := p.GenerateTree(context.Background(), topic)
	if err != nil {
		return err
	}
	res := layout.Layout(tree, 0, 1)
	stats := analysis.Stats(tree)

	if opts.stats {
		fmt.Printf("nodes: %d\nleaves: %d\nmax depth: %d\nmean branching: %.2f (σ %.2f)\ndeepest: %s\n",
			stats.Nodes, stats.Leaves, stats.MaxDepth,
			stats.MeanBranching, stats.StdDevBranching, stats.DeepestPath)
	}

	if opts.svg != "" {
		if err := export.WriteSVGFile(opts.svg, res, tree.Topic); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", opts.svg)
	}
	if opts.png != "" {
		if err := export.WritePNGFile(opts.png, res, tree.Topic); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", opts.png)
	}
	if opts.md != "" {
		if err := export.WriteMarkdownFile(opts.md, tree, stats); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", opts.md)
	}
	if opts.html != "" {
		hOpts := export.HTMLOptions{LiveReload: opts.serve != ""}
		if err := export.WriteHTMLFile(opts.html, res, tree.Topic, hOpts); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", opts.html)
	}
	if opts.dir != "" {
		if err := os.MkdirAll(opts.dir, 0o755); err != nil {
			return err
		}
		paths, err := export.AllFormats(opts.dir, tree, res)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("Wrote %s\n", p)
		}
	}

	if opts.serve != "" {
		dir := opts.dir
		if dir == "" {
			dir = "."
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return export.ServePreview(ctx, opts.serve, dir)
	}
	return nil
}

// promptTopic asks interactively when no --topic was given. Refuses in
// non-interactive contexts so scripts fail fast instead of hanging.
func promptTopic() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no --topic given and stdin is not a terminal")
	}
	var topic string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("What do you want to explore?").
			Placeholder("Quantum Computing").
			Value(&topic).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("topic cannot be empty")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(topic), nil
}
