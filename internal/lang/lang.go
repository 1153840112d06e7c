// Package lang holds the localizable strings used around book delivery.
package lang

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/and161185/achbook/internal/markup"
)

// Strings is the subset of the language file relevant to books.
type Strings struct {
	ChatHeader   string `yaml:"chat-header"`
	BookName     string `yaml:"book-name"`
	BookDate     string `yaml:"book-date"` // DATE is replaced
	BookReceived string `yaml:"book-received"`
	BookDelay    string `yaml:"book-delay"` // TIME is replaced by seconds
}

// Defaults returns the built-in English strings.
func Defaults() Strings {
	return Strings{
		ChatHeader:   "&7[&6Achievements&7] ",
		BookName:     "Achievements Book",
		BookDate:     "Book created on DATE.",
		BookReceived: "You received your achievements book!",
		BookDelay:    "You must wait TIME seconds between each book reception!",
	}
}

// Parse decodes YAML; keys that are absent keep their default value.
func Parse(b []byte) (Strings, error) {
	s := Defaults()
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Strings{}, fmt.Errorf("parse lang: %w", err)
	}
	return s, nil
}

// Load reads a language file. An empty path yields the defaults.
func Load(path string) (Strings, error) {
	if path == "" {
		return Defaults(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Strings{}, err
	}
	return Parse(b)
}

// Received is the chat line sent after a book is delivered.
func (s Strings) Received() string {
	return markup.Colorize(s.ChatHeader + s.BookReceived)
}

// Delay is the chat line sent when the requester is still on cooldown.
func (s Strings) Delay(cooldown time.Duration) string {
	secs := strconv.FormatInt(int64(cooldown/time.Second), 10)
	return markup.Colorize(s.ChatHeader + strings.ReplaceAll(s.BookDelay, "TIME", secs))
}
