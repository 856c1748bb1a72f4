package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
)

const version = "1.2.0"

var (
	configPath  = flag.String("config", "", "path to configuration file")
	apiURL      = flag.String("api", "", "admin API base url, e.g. https://eco.example.com/api")
	locale      = flag.String("locale", "", "interface language: ru-RU, en-US")
	showVersion = flag.Bool("version", false, "show version")
	update      = flag.Bool("update", false, "update to latest version")
	showHelp    = flag.Bool("h", false, "show help")
	showHelp2   = flag.Bool("help", false, "show help")
	logger      = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.InfoLevel,
	})
)

func main() {
	flag.Parse()

	if len(os.Args) > 1 {
		validFlags := map[string]bool{
			"-config":  true,
			"-api":     true,
			"-locale":  true,
			"-version": true,
			"-update":  true,
			"-h":       true, "-help": true,
		}

		for _, arg := range os.Args[1:] {
			if !strings.HasPrefix(arg, "-") {
				continue
			}
			flagName := strings.Replace(arg, "--", "-", 1)
			if idx := strings.Index(flagName, "="); idx != -1 {
				flagName = flagName[:idx]
			}
			if !validFlags[flagName] {
				displayHelp()
				return
			}
		}
	}

	if *showVersion {
		displayVersion()
		return
	}

	if *update {
		performUpdate()
		return
	}

	if *showHelp || *showHelp2 {
		displayHelp()
		return
	}

	printBanner()

	if *configPath != "" {
		setConfigPath(*configPath)
	}

	if !configExists() {
		if err := createConfigTemplate(); err != nil {
			logger.Warn("failed to create config template", "error", err)
		} else {
			path, _ := getConfigPath()
			logger.Info("created config template", "path", path)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err := applyEnv(cfg); err != nil {
		logger.Fatal("failed to read environment", "error", err)
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	applyDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "log_level", cfg.LogLevel)
	}

	texts, err := NewTexts(cfg.Locale)
	if err != nil {
		logger.Fatal("failed to load translations", "error", err)
	}

	host, err := parseHostUser(cfg.HostUser)
	if err != nil {
		logger.Warn("ignoring host user identity", "error", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal("failed to open session store", "backend", cfg.Session.Backend, "error", err)
	}
	defer store.Close()

	session, err := LoadSession(store, host)
	if err != nil {
		logger.Fatal("failed to load session", "error", err)
	}

	logger.Debug("configuration",
		"api", cfg.APIBaseURL,
		"locale", texts.Locale(),
		"session", cfg.Session.Backend,
		"co2_entry", cfg.Dashboard.CO2Entry,
		"host_user", host != nil,
		"signed_in", session.LoggedIn(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down...")
		cancel()
		// unblock a pending read
		os.Stdin.Close()
	}()

	api := NewAPIClient(cfg.APIBaseURL, session, &http.Client{})
	ui := NewTerminal(os.Stdin, os.Stdout, cfg.Dashboard.CancelWord, texts)
	console := NewController(cfg, session, api, ui, os.Stdout, texts)

	if err := console.Run(ctx); err != nil {
		logger.Error("console stopped", "error", err)
		return
	}
	logger.Info("goodbye")
}
