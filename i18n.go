package main

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

var (
	registerOnce sync.Once
	registerErr  error
	// supported locales in matcher order; the first one is the fallback
	supportedLocales []language.Tag
	localeMessages   map[language.Tag]map[string]string
)

// registerCatalogs loads the embedded catalogs into the x/text default catalog.
func registerCatalogs() error {
	registerOnce.Do(func() {
		registerErr = loadCatalogs(localeFS)
	})
	return registerErr
}

func loadCatalogs(fsys fs.FS) error {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no locale catalogs found")
	}
	sort.Strings(paths)

	localeMessages = make(map[language.Tag]map[string]string)
	base := language.Make(defaultLocale)
	supportedLocales = []language.Tag{base}

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(file.Locale))
		if err != nil {
			return fmt.Errorf("%s: locale tag %q: %w", path, file.Locale, err)
		}
		for key, value := range file.Messages {
			if err := message.SetString(tag, key, value); err != nil {
				return fmt.Errorf("%s: register %s: %w", path, key, err)
			}
		}
		localeMessages[tag] = file.Messages
		if tag != base {
			supportedLocales = append(supportedLocales, tag)
		}
	}

	if _, ok := localeMessages[base]; !ok {
		return fmt.Errorf("base locale %s has no catalog", defaultLocale)
	}
	return nil
}

// Texts renders catalog messages for one locale.
type Texts struct {
	tag     language.Tag
	printer *message.Printer
}

// NewTexts picks the closest supported locale for the requested one.
func NewTexts(locale string) (*Texts, error) {
	if err := registerCatalogs(); err != nil {
		return nil, err
	}
	matcher := language.NewMatcher(supportedLocales)
	_, idx, _ := matcher.Match(language.Make(strings.TrimSpace(locale)))
	tag := supportedLocales[idx]
	return &Texts{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// T formats the message stored under key.
func (t *Texts) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Number formats n with the locale's digit grouping.
func (t *Texts) Number(n int) string {
	return t.printer.Sprintf("%d", n)
}

func (t *Texts) Locale() string {
	return t.tag.String()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp renders an API timestamp in local time using the locale layout.
// Timestamps without a zone are taken as local time. Unparseable input is
// returned unchanged.
func (t *Texts) Timestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts.Local().Format(t.T("format.datetime"))
		}
	}
	return raw
}
