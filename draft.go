package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/contentscore/analyzer"
)

// draftFile is the on-disk form of an article under edit
type draftFile struct {
	Title             string            `yaml:"title"`
	PrimaryKeyword    string            `yaml:"primary_keyword"`
	SecondaryKeywords []string          `yaml:"secondary_keywords"`
	Content           string            `yaml:"content"`
	ContentFile       string            `yaml:"content_file"`
	Override          *analyzer.Preview `yaml:"override"`
}

// loadDraft reads a draft file. A relative content_file is resolved against
// the draft's directory. The returned path list holds every file the draft
// was built from.
func loadDraft(path string) (analyzer.Input, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analyzer.Input{}, nil, fmt.Errorf("read draft: %w", err)
	}

	var d draftFile
	if err := yaml.Unmarshal(data, &d); err != nil {
		return analyzer.Input{}, nil, fmt.Errorf("parse draft %s: %w", path, err)
	}

	sources := []string{path}
	content := d.Content
	if d.ContentFile != "" {
		if d.Content != "" {
			return analyzer.Input{}, nil, errors.New("draft sets both content and content_file")
		}
		contentPath := d.ContentFile
		if !filepath.IsAbs(contentPath) {
			contentPath = filepath.Join(filepath.Dir(path), contentPath)
		}
		raw, err := os.ReadFile(contentPath)
		if err != nil {
			return analyzer.Input{}, nil, fmt.Errorf("read content file: %w", err)
		}
		content = string(raw)
		sources = append(sources, contentPath)
	}

	keywords := analyzer.NewKeywordSet()
	for _, kw := range d.SecondaryKeywords {
		if err := keywords.Add(kw); err != nil {
			return analyzer.Input{}, nil, fmt.Errorf("draft %s: secondary keyword: %w", path, err)
		}
	}

	in := analyzer.Input{
		Title:             d.Title,
		Content:           content,
		PrimaryKeyword:    d.PrimaryKeyword,
		SecondaryKeywords: keywords.List(),
	}
	if d.Override != nil && (d.Override.Title != "" || d.Override.URL != "" || d.Override.Description != "") {
		in.Override = &analyzer.Preview{
			Title:       d.Override.Title,
			URL:         d.Override.URL,
			Description: d.Override.Description,
		}
	}
	return in, sources, nil
}
