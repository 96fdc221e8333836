// Package cli implements the command-line interface for scorecard-sync.
//
// The cli package provides the Cobra-based CLI: build assembles a payload from
// a submitted scorecard form, scrape fetches and reviews a Grint round, parse
// does the same for a saved review page, and meta prints the course and tee a
// Grint round was played on. seal encrypts a credential for the config file.
// Payloads can be archived with --save and handed off with --notify. Output is
// text or JSON. Settings come from the config package and every run is tagged
// with a run id in the logs and the payload archive.
package cli
