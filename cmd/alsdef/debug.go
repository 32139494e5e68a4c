package main

import (
	"github.com/k0kubun/alsdef/als"
	"github.com/k0kubun/alsdef/config"
	"github.com/k0kubun/alsdef/operator"
)

// parseForDebug parses text without expanding it, for the --debug-ast dump.
func parseForDebug(text string, cfg config.Config) (*operator.Document, error) {
	return als.ParseDocument(text, cfg.MaxRangeExpansion)
}
