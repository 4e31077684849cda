package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// InitCmd implements the 'init' command: a minimal site skeleton.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

const starterConfig = `baseURL = "https://example.org/"
title = "My Site"
languageCode = "en-us"
buildDrafts = false
buildFuture = false

[markup]
unsafeHTML = false

[[menu.main]]
name = "Posts"
url = "/"
weight = 1

[[menu.main]]
name = "Tags"
url = "/tags/"
weight = 2

[outputs]
home = ["html", "rss", "json"]
`

const starterPost = `---
title: "Hello, World"
date: %s
tags:
  - meta
layout: post
draft: true
---

Welcome to your new site. Edit or delete this post, then run
` + "`sitesmith build`" + ` to generate the site.
`

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if _, err := os.Stat(root.Config); err == nil && !i.Force {
		return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", root.Config)
	}

	siteRoot := filepath.Dir(root.Config)
	for _, dir := range []string{"content", "static", "themes"} {
		if err := os.MkdirAll(filepath.Join(siteRoot, dir), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", dir, err)
		}
	}

	if err := os.WriteFile(root.Config, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}

	postPath := filepath.Join(siteRoot, "content", "hello-world.md")
	if _, err := os.Stat(postPath); os.IsNotExist(err) {
		post := fmt.Sprintf(starterPost, time.Now().Format("2006-01-02"))
		if err := os.WriteFile(postPath, []byte(post), 0o644); err != nil {
			return fmt.Errorf("write starter post: %w", err)
		}
	}

	fmt.Printf("Initialized new site at %s\n", siteRoot)
	return nil
}
