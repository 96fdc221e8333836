package payload

import (
	"github.com/pfrederiksen/scorecard-sync/internal/holes"
	"github.com/pfrederiksen/scorecard-sync/internal/locator"
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/pfrederiksen/scorecard-sync/internal/normalize"
	"github.com/pfrederiksen/scorecard-sync/internal/raw"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
)

// Options tune the form path.
type Options struct {
	// InferHoles lets per-hole evidence repair an eighteen-hole declaration.
	InferHoles bool
	// Locator overrides the default scores table search.
	Locator *locator.Locator
	Log     *logger.Logger
}

// BuildFromForm runs the form path: locate the scores table, normalize it,
// resolve the holes and assemble the payload. A missing table yields a
// payload with every statistic null.
func BuildFromForm(values raw.Value, fallback locator.RequestSource, opts Options) *Payload {
	log := opts.Log
	if log == nil {
		log = logger.Channel("upload")
	}
	loc := opts.Locator
	if loc == nil {
		loc = locator.New()
		loc.Log = log
	}

	meta := MetadataFromValues(values)

	ch := scorecard.NewChannels()
	if table, ok := loc.Find(values, fallback); ok {
		ch = normalize.Normalize(table)
	} else {
		logger.IncrCounter("upload.table_missing")
		log.Warn("Scores table not found; posting without hole statistics", logger.Fields{
			"individual_id": meta.IndividualID,
		})
	}

	var signals map[int]holes.HoleSignal
	if opts.InferHoles {
		signals = holes.SignalsFromChannels(ch)
	}
	res := holes.Resolve(meta.HolesMode, signals)
	if res.Inferred {
		log.Info("Holes mode overridden by inference", logger.Fields{
			"from": res.Declared.Token(),
			"to":   res.Mode.Token(),
		})
	}

	p := Assemble(res, ch, meta)
	log.Debug("Payload assembled", logger.Fields{
		"holes_played": p.HolesPlayed.String(),
		"hole_scores":  len(p.HoleScores),
		"values":       ch.Count(),
	})
	return p
}
