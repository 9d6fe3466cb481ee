// Package i18n holds the wizard's message catalogs and picks the language
// for a request.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

const (
	LangPT = "pt"
	LangEN = "en"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Manager serves merged catalogs: every language falls back to the default
// language key by key, so the merge happens once at load time.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]map[string]string
	languages       []string
}

// NewManager loads the catalogs compiled into the binary.
func NewManager(defaultLanguage string) (*Manager, error) {
	return NewManagerFromFS(defaultLanguage, embeddedLocales, "locales")
}

func NewManagerFromFS(defaultLanguage string, fsys fs.FS, dir string) (*Manager, error) {
	raw, err := readCatalogs(fsys, dir)
	if err != nil {
		return nil, err
	}
	for _, required := range []string{LangPT, LangEN} {
		if _, ok := raw[required]; !ok {
			return nil, fmt.Errorf("required locale %q missing", required)
		}
	}

	manager := &Manager{defaultLanguage: LangPT, catalogs: make(map[string]map[string]string, len(raw))}
	for language := range raw {
		manager.languages = append(manager.languages, language)
	}
	sort.Strings(manager.languages)
	if candidate := baseLanguage(defaultLanguage); raw[candidate] != nil {
		manager.defaultLanguage = candidate
	}

	fallback := raw[manager.defaultLanguage]
	for language, messages := range raw {
		merged := make(map[string]string, len(fallback)+len(messages))
		for key, value := range fallback {
			merged[key] = value
		}
		for key, value := range messages {
			if strings.TrimSpace(value) != "" {
				merged[key] = value
			}
		}
		manager.catalogs[language] = merged
	}
	return manager, nil
}

func readCatalogs(fsys fs.FS, dir string) (map[string]map[string]string, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no locales found in %s", dir)
	}

	catalogs := make(map[string]map[string]string, len(files))
	for _, file := range files {
		language := strings.ToLower(strings.TrimSuffix(path.Base(file), ".json"))
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}
		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}
		catalogs[language] = messages
	}
	return catalogs, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.languages...)
}

// Supported reports the catalog language for a tag such as "pt-BR", or
// false when no catalog serves it.
func (manager *Manager) Supported(tag string) (string, bool) {
	language := baseLanguage(tag)
	_, ok := manager.catalogs[language]
	return language, ok
}

// NormalizeLanguage maps a tag onto a catalog language, defaulting when
// nothing matches.
func (manager *Manager) NormalizeLanguage(tag string) string {
	if language, ok := manager.Supported(tag); ok {
		return language
	}
	return manager.defaultLanguage
}

// Resolve returns the language for a request: an explicit choice wins, then
// the Accept-Language entries in quality order.
func (manager *Manager) Resolve(choice string, acceptLanguage string) string {
	if language, ok := manager.Supported(choice); ok {
		return language
	}
	for _, tag := range preferredTags(acceptLanguage) {
		if language, ok := manager.Supported(tag); ok {
			return language
		}
	}
	return manager.defaultLanguage
}

// Messages returns the shared catalog for language. Callers must not modify it.
func (manager *Manager) Messages(language string) map[string]string {
	return manager.catalogs[manager.NormalizeLanguage(language)]
}

func (manager *Manager) Translate(language string, key string) string {
	return Lookup(manager.Messages(language), key)
}

// Lookup returns the message for key, or the key itself when it is missing.
func Lookup(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

type weightedTag struct {
	tag     string
	quality float64
}

func preferredTags(header string) []string {
	weighted := make([]weightedTag, 0, 4)
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		tag := strings.TrimSpace(fields[0])
		if tag == "" || tag == "*" {
			continue
		}
		quality := 1.0
		for _, param := range fields[1:] {
			name, value, found := strings.Cut(strings.TrimSpace(param), "=")
			if !found || strings.TrimSpace(name) != "q" {
				continue
			}
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				quality = parsed
			}
		}
		if quality <= 0 {
			continue
		}
		weighted = append(weighted, weightedTag{tag: tag, quality: quality})
	}

	sort.SliceStable(weighted, func(i, j int) bool {
		return weighted[i].quality > weighted[j].quality
	})
	tags := make([]string, len(weighted))
	for index, entry := range weighted {
		tags[index] = entry.tag
	}
	return tags
}

func baseLanguage(tag string) string {
	language := strings.ToLower(strings.TrimSpace(tag))
	language, _, _ = strings.Cut(strings.ReplaceAll(language, "_", "-"), "-")
	return language
}
