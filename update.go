package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/charmbracelet/lipgloss"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const repoSlug = "ecostep/ecoadmin"

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E7D32")).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#4CAF50")).
			Padding(0, 2)
	helpFlagStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#81C784"))
)

func printBanner() {
	fmt.Fprintln(os.Stderr, bannerStyle.Render(fmt.Sprintf("🌱 ecoadmin v%s", version)))
}

func displayVersion() {
	fmt.Printf("ecoadmin v%s\n", version)
}

func displayHelp() {
	printBanner()
	fmt.Println()
	fmt.Println("administrator console for the EcoStep eco challenge bot")
	fmt.Println()
	fmt.Println("usage: ecoadmin [flags]")
	fmt.Println()
	flag.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  %s  %s\n", helpFlagStyle.Render(fmt.Sprintf("-%-8s", f.Name)), f.Usage)
	})
	fmt.Println()
	fmt.Println("environment: ECOADMIN_API_URL, ECOADMIN_LOCALE, ECOADMIN_LOG_LEVEL,")
	fmt.Println("             ECOADMIN_SESSION_BACKEND, ECOADMIN_SESSION_PATH, ECOADMIN_HOST_USER")
	fmt.Println()
	fmt.Println("config: ~/.config/ecoadmin/config.yaml (created on first run)")
}

func performUpdate() {
	current, err := semver.Parse(version)
	if err != nil {
		logger.Fatal("invalid build version", "version", version, "error", err)
	}

	logger.Info("checking for updates", "current", current.String())
	latest, found, err := selfupdate.DetectLatest(repoSlug)
	if err != nil {
		logger.Fatal("failed to check for updates", "error", err)
	}
	if !found || latest.Version.LTE(current) {
		logger.Info("already up to date", "version", current.String())
		return
	}

	release, err := selfupdate.UpdateSelf(current, repoSlug)
	if err != nil {
		logger.Fatal("update failed", "error", err)
	}
	logger.Info("updated", "version", release.Version.String())
	if release.ReleaseNotes != "" {
		fmt.Println(release.ReleaseNotes)
	}
}
