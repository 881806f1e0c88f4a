package main

import (
	"strings"

	"go.uber.org/zap"
)

// AssembleOptions carries everything one run of the pipeline needs. Sniffer
// and Tokenizer are optional; nil selects the content sniffer and no token
// counting respectively.
type AssembleOptions struct {
	Root       string
	Exclusions *ExclusionSet
	Prompt     string
	Sniffer    Sniffer
	Tokenizer  Tokenizer
	WithTree   bool
	ShowHidden bool
	NoIgnore   bool
	MaxDepth   int
	MaxSize    int64
}

// assemble runs the whole pipeline for a local root: walk, classify, format,
// concatenate. Per-file problems are recovered locally (skip and warn); only a
// bad root or malformed configuration reaches the caller as an error.
//
// Everything is sequential and single-threaded: entries are processed in the
// walker's lexical order and appended one by one, so two runs over an
// unchanged tree produce byte-identical documents.
func assemble(opts AssembleOptions) (*Document, Summary, error) {
	classifier := newClassifier(opts.Exclusions, opts.Sniffer)

	entries, err := walkTree(WalkConfig{
		Root:       opts.Root,
		Exclusions: opts.Exclusions,
		ShowHidden: opts.ShowHidden,
		NoIgnore:   opts.NoIgnore,
		MaxDepth:   opts.MaxDepth,
		MaxSize:    opts.MaxSize,
	})
	if err != nil {
		return nil, Summary{}, err
	}

	doc := &Document{Prompt: opts.Prompt}
	var summary Summary

	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		cls := classifier.Classify(entry.Path, entry.Rel)
		if !cls.Accepted() {
			summary.Skipped++
			if cls == ClassBinaryOrUnreadable {
				logger.Debug("skipping non-text file", zap.String("path", entry.Rel))
			}
			continue
		}

		block, err := formatBlock(entry)
		if err != nil {
			// The file vanished or became unreadable after classification.
			logger.Warn("skipping file that could not be read", zap.String("path", entry.Rel), zap.Error(err))
			summary.Skipped++
			continue
		}
		if opts.Tokenizer != nil {
			block.TokenCount = opts.Tokenizer.CountTokens(block.Content)
			summary.TotalTokens += block.TokenCount
		}

		doc.Blocks = append(doc.Blocks, block)
		summary.Files++
		summary.TotalBytes += entry.Size
	}

	if opts.WithTree {
		doc.Tree = renderTree(buildTree(entries, opts.Root))
	}

	return doc, summary, nil
}

// Render concatenates the document sections in their fixed order: the file
// tree, one block per accepted file, and the prompt (at most once, always
// last).
func (d *Document) Render() string {
	var sb strings.Builder
	if d.Tree != "" {
		sb.WriteString("### File Tree:\n")
		sb.WriteString(d.Tree)
		sb.WriteString("\n")
	}
	sb.WriteString("### Files:\n")
	for _, block := range d.Blocks {
		sb.WriteString(block.Render())
	}
	if d.Prompt != "" {
		sb.WriteString("### Prompt:\n")
		sb.WriteString(d.Prompt)
		sb.WriteString("\n")
	}
	return sb.String()
}
