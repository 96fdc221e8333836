package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pfrederiksen/scorecard-sync/internal/config"
	"github.com/pfrederiksen/scorecard-sync/internal/crypto"
	"github.com/pfrederiksen/scorecard-sync/internal/holes"
	"github.com/pfrederiksen/scorecard-sync/internal/locator"
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/pfrederiksen/scorecard-sync/internal/notifier"
	"github.com/pfrederiksen/scorecard-sync/internal/payload"
	"github.com/pfrederiksen/scorecard-sync/internal/raw"
	"github.com/pfrederiksen/scorecard-sync/internal/review"
	"github.com/pfrederiksen/scorecard-sync/internal/scraper"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		input      string
		rawRequest string
		inferHoles bool
		strict     bool
		save       bool
		notify     bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a score post from a submitted scorecard form",
		Long: `Build reads a submitted scorecard form, as JSON or as a form-encoded body,
locates its scores table, normalizes every hole and assembles the postScore
payload. When the table is missing from the form, --raw-request names the
unprocessed request body to search instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(cmd, input)
			if err != nil {
				return err
			}

			var fallback locator.RequestSource
			if rawRequest != "" {
				fallback = locator.RequestFunc(func() (raw.Value, error) {
					return readValues(cmd, rawRequest)
				})
			}

			opts := payload.Options{InferHoles: inferHoles}
			if strict {
				loc := locator.New()
				loc.Predicate = locator.LooksLikeScoresTableStrict
				opts.Locator = loc
			}

			p := payload.BuildFromForm(values, fallback, opts)
			result := &Result{RunID: a.runID, Payload: p}
			if save {
				if result.ArchivedTo, err = a.archive(p); err != nil {
					return err
				}
			}
			if notify {
				if err := a.notify(cmd, notifier.Submission{RunID: a.runID, Source: "form", Payload: p}); err != nil {
					return err
				}
			}

			if err := WriteOutput(cmd.OutOrStdout(), result, a.format); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Submitted form as JSON or form-encoded body, - for stdin (required)")
	cmd.Flags().StringVar(&rawRequest, "raw-request", "", "Unprocessed request body searched when the form has no scores table")
	cmd.Flags().BoolVar(&inferHoles, "infer-holes", false, "Let played holes override an 18-hole declaration")
	cmd.Flags().BoolVar(&strict, "strict-table", false, "Require both sides in the scores table")
	cmd.Flags().BoolVar(&save, "save", false, "Archive the payload in the data directory")
	cmd.Flags().BoolVar(&notify, "notify", false, "Hand the payload to the configured webhook")
	cmd.MarkFlagRequired("input")

	return cmd
}

// roundFlags are the destination details of a Grint round.
type roundFlags struct {
	holesMode   string
	memberID    int
	facilityID  int
	courseID    int
	teeID       int
	playedDate  string
	format      string
	tournament  bool
	playedAlone bool
	attestor    string
	save        bool
	notify      bool
}

func (f *roundFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.holesMode, "holes-mode", holes.TokenEighteen, "Declared holes: 18, front9 or back9")
	fs.IntVar(&f.memberID, "gc-id", 0, "Golf Canada individual id")
	fs.IntVar(&f.facilityID, "gc-facility-id", 0, "Golf Canada facility id")
	fs.IntVar(&f.courseID, "gc-course-id", 0, "Golf Canada course id")
	fs.IntVar(&f.teeID, "gc-tee-id", 0, "Golf Canada tee id")
	fs.StringVar(&f.playedDate, "played-date", "", "Date played, e.g. 2024-06-01 or \"Jun 1 2024\"")
	fs.StringVar(&f.format, "format-played", "stroke", "Format played: stroke or match")
	fs.BoolVar(&f.tournament, "tournament", false, "Tournament score")
	fs.BoolVar(&f.playedAlone, "played-alone", false, "Round was played alone")
	fs.StringVar(&f.attestor, "attestor", "", "Name of the attesting player")
	fs.BoolVar(&f.save, "save", false, "Archive the payload in the data directory")
	fs.BoolVar(&f.notify, "notify", false, "Hand the payload to the configured webhook")
}

func (f *roundFlags) reviewMeta() review.Meta {
	return review.Meta{
		HolesMode:  f.holesMode,
		MemberID:   f.memberID,
		FacilityID: f.facilityID,
		CourseID:   f.courseID,
		TeeID:      f.teeID,
	}
}

func (f *roundFlags) roundMetadata() (payload.RoundMetadata, error) {
	date, err := parsePlayedDate(f.playedDate, time.Now())
	if err != nil {
		return payload.RoundMetadata{}, err
	}

	return payload.RoundMetadata{
		IndividualID: f.memberID,
		FacilityID:   f.facilityID,
		CourseID:     f.courseID,
		TeeID:        f.teeID,
		PlayedDate:   date,
		Format:       f.format,
		HolesMode:    f.holesMode,
		Tournament:   f.tournament,
		PlayedAlone:  f.playedAlone,
		Attestor:     f.attestor,
	}, nil
}

// finish assembles the payload from a reviewed scorecard and writes it out.
func (a *app) finish(cmd *cobra.Command, f *roundFlags, result *Result) error {
	meta, err := f.roundMetadata()
	if err != nil {
		return err
	}
	sc := result.Scorecard
	result.Payload = payload.Assemble(sc.Holes, sc.Channels(), meta)

	if f.save {
		path, err := a.archive(result.Payload)
		if err != nil {
			return err
		}
		result.ArchivedTo = path
	}
	if f.notify {
		sub := notifier.Submission{RunID: a.runID, Source: "grint", RoundID: result.RoundID, Payload: result.Payload}
		if err := a.notify(cmd, sub); err != nil {
			return err
		}
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, a.format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newScrapeCmd(a *app) *cobra.Command {
	var (
		roundID int
		rf      roundFlags
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch a Grint round and build its score post",
		Long: `Scrape fetches a round's review page from Grint, reviews it against Golf
Canada reference data when an API key and all four ids are given, and
assembles the postScore payload. Reference data failures are logged and the
round is still built.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := a.grintClient(cmd)
			if err != nil {
				return err
			}

			round, err := client.FetchRoundScores(ctx, roundID)
			if err != nil {
				return err
			}
			rm, err := client.FetchRoundMeta(ctx, roundID)
			if err != nil {
				a.log.Warn("Round meta unavailable", logger.Fields{"round_id": roundID, "error": err.Error()})
			}

			gc := a.courseClient()
			builder := review.NewBuilder(nil, client)
			if gc != nil {
				builder.Provider = gc
			}
			sc := builder.Build(ctx, round, review.MetaFromRound(rf.reviewMeta(), rm))
			a.saveCache(gc)

			result := &Result{RunID: a.runID, RoundID: roundID, Meta: &rm, Scorecard: sc}
			return a.finish(cmd, &rf, result)
		},
	}

	cmd.Flags().IntVar(&roundID, "round", 0, "Grint round id (required)")
	rf.register(cmd.Flags())
	cmd.MarkFlagRequired("round")

	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	var (
		htmlFile string
		showMeta bool
		rf       roundFlags
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Build a score post from a saved Grint review page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, htmlFile)
			if err != nil {
				return err
			}

			round := scraper.ParseRoundScores(bytes.NewReader(data))
			rm := scraper.ParseRoundMeta(bytes.NewReader(data))
			a.log.Debug("Parsed review page", logger.Fields{"holes": round.Len(), "course_id": rm.CourseID})

			sc := review.NewBuilder(nil, nil).Build(cmd.Context(), round, review.MetaFromRound(rf.reviewMeta(), rm))

			result := &Result{RunID: a.runID, Scorecard: sc}
			if showMeta {
				result.Meta = &rm
			}
			return a.finish(cmd, &rf, result)
		},
	}

	cmd.Flags().StringVar(&htmlFile, "html", "", "Saved review_score page, - for stdin (required)")
	cmd.Flags().BoolVar(&showMeta, "meta", false, "Include the course and tee read from the page")
	rf.register(cmd.Flags())
	cmd.MarkFlagRequired("html")

	return cmd
}

func newMetaCmd(a *app) *cobra.Command {
	var roundID int

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show the course and tee a Grint round was played on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.grintClient(cmd)
			if err != nil {
				return err
			}
			rm, err := client.FetchRoundMeta(cmd.Context(), roundID)
			if err != nil {
				return err
			}

			result := &Result{RunID: a.runID, RoundID: roundID, Meta: &rm}
			if err := WriteOutput(cmd.OutOrStdout(), result, a.format); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&roundID, "round", 0, "Grint round id (required)")
	cmd.MarkFlagRequired("round")

	return cmd
}

func newSealCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Seal a credential for the config file",
		Long: `Seal reads a password or API key from stdin and prints it encrypted with
the passphrase in SCORECARD_SYNC_PASSPHRASE. The printed value can replace
grint.password or gc.api_key in scorecard-sync.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := crypto.NewEncryptor(a.cfg.Passphrase)
			if err != nil {
				return fmt.Errorf("sealing: set %s_PASSPHRASE: %w", config.EnvPrefix, err)
			}

			secret, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading secret: %w", err)
			}
			sealed, err := enc.Seal(strings.TrimRight(string(secret), "\r\n"))
			if err != nil {
				return fmt.Errorf("sealing: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), sealed)
			return nil
		},
	}
	return cmd
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// readValues decodes a submitted form. Bodies starting with { or [ are JSON;
// anything else is form-encoded.
func readValues(cmd *cobra.Command, path string) (raw.Value, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return raw.Value{}, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		v, err := raw.FromJSONBytes(trimmed)
		if err != nil {
			return raw.Value{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return v, nil
	}

	v, err := raw.FromForm(string(trimmed))
	if err != nil {
		return raw.Value{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}
