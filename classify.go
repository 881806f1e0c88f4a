package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// plaintextExtensions is the allowlist of extensions (without the dot) that
// are treated as text without sniffing.
var plaintextExtensions = map[string]bool{
	// web development
	"ts": true, "tsx": true, "js": true, "jsx": true,
	"html": true, "htm": true, "css": true, "scss": true, "sass": true,
	// template files
	"twig": true, "ejs": true, "hbs": true, "vue": true, "svelte": true,
	// config files
	"yml": true, "yaml": true, "toml": true, "ini": true, "env": true,
	// documentation
	"md": true, "markdown": true, "txt": true, "rst": true,
	// other programming languages
	"py": true, "rb": true, "php": true, "java": true, "go": true,
	"rs": true, "c": true, "cpp": true, "h": true, "hpp": true,
	"sh": true, "bash": true,
}

// Classifier decides whether a candidate path contributes to the output.
// Exclusion rules win over everything else, so an excluded file is never
// opened or sniffed.
type Classifier struct {
	Exclusions *ExclusionSet
	Sniffer    Sniffer
}

func newClassifier(excl *ExclusionSet, sn Sniffer) *Classifier {
	if sn == nil {
		sn = contentSniffer{}
	}
	return &Classifier{Exclusions: excl, Sniffer: sn}
}

// Classify probes the file at path. rel is the slash-separated path relative
// to the traversal root, used for exclusion matching.
func (c *Classifier) Classify(path, rel string) Classification {
	if c.Exclusions.Match(rel) {
		return ClassExcluded
	}

	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".html.twig") {
		return ClassPlaintextExtension
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "json" {
		return ClassJSONFile
	}
	if plaintextExtensions[ext] {
		return ClassPlaintextExtension
	}

	// No extension match: sniff a bounded prefix of the content.
	mime, err := c.sniffFile(path)
	if err != nil {
		return ClassBinaryOrUnreadable
	}
	if isTextMIME(mime) {
		return ClassMIMETextPlain
	}
	return ClassBinaryOrUnreadable
}

// sniffFile reads at most sniffLimit bytes of a regular file and runs the
// injected sniffer on them. Broken symlinks, directories, devices and
// permission errors all surface as errors and end up Binary/Unreadable.
func (c *Classifier) sniffFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", errors.New("not a regular file")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// ReadFull keeps reading until the buffer is full or the file ends, so
	// the sniffer always sees the whole available prefix.
	buf := make([]byte, sniffLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	return c.Sniffer.Sniff(buf[:n]), nil
}
