package chatui

import (
	"path/filepath"
	"strings"
)

// PreviewPlacement controls where the pinned data preview is inserted
type PreviewPlacement string

const (
	// PreviewPrepend pins the preview at the start of the history
	PreviewPrepend PreviewPlacement = "prepend"
	// PreviewAppend appends the preview after the welcome message
	PreviewAppend PreviewPlacement = "append"
)

// SourceLabel selects single-file or multi-document wording
type SourceLabel string

const (
	SourceFile  SourceLabel = "file"
	SourceVault SourceLabel = "vault"
)

// Document describes one processed input, as shown in placeholder and welcome text
type Document struct {
	Name string `mapstructure:"name" yaml:"name"`
	Type string `mapstructure:"type" yaml:"type"`
}

// NewDocument builds a Document from a file path, deriving the type from its extension
func NewDocument(path string) Document {
	name := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return Document{Name: name, Type: strings.ToLower(ext)}
}

// Options parameterizes the behaviors that differ between deployments
type Options struct {
	PreviewPlacement     PreviewPlacement
	SourceLabel          SourceLabel
	RelocateStreamBubble bool
	Documents            []Document
}

// DefaultOptions returns single-file behavior with the streaming bubble relocated
func DefaultOptions() Options {
	return Options{
		PreviewPlacement:     PreviewPrepend,
		SourceLabel:          SourceFile,
		RelocateStreamBubble: true,
	}
}

// ParsePreviewPlacement maps a config string onto a placement, defaulting to prepend
func ParsePreviewPlacement(s string) PreviewPlacement {
	if strings.EqualFold(strings.TrimSpace(s), string(PreviewAppend)) {
		return PreviewAppend
	}
	return PreviewPrepend
}

// ParseSourceLabel maps a config string onto a label, defaulting to file
func ParseSourceLabel(s string) SourceLabel {
	if strings.EqualFold(strings.TrimSpace(s), string(SourceVault)) {
		return SourceVault
	}
	return SourceFile
}

func (o Options) primary() Document {
	if len(o.Documents) == 0 {
		return Document{Name: "your document", Type: "file"}
	}
	return o.Documents[0]
}

// Placeholder returns the input placeholder shown once processing completes
func (o Options) Placeholder() string {
	if o.SourceLabel == SourceVault {
		return "Ask about your vault..."
	}
	return "Ask about your " + strings.ToUpper(o.primary().Type) + "..."
}
