package clean

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"gradstats/app/vocab"
)

// StandardizerOptions carries the matching policy knobs. The dissimilarity
// bound was tuned empirically and is configuration, not a derived constant.
type StandardizerOptions struct {
	UniversityThreshold float64
	ProgramThreshold    float64
	DissimilarityBound  float64
}

// Standardizer produces the advisory generated_university/generated_program
// fields. It calls the auxiliary generator, then guards its proposal with the
// canonical matcher and the hand-maintained fix tables; when confidence is
// insufficient it defaults to trusting the original text. Safe for
// concurrent use; the proposal cache is shared, read-mostly and write-once
// per key.
type Standardizer struct {
	gen          Generator
	universities *vocab.Vocabulary
	programs     *vocab.Vocabulary
	fixes        *vocab.FixTables
	opts         StandardizerOptions

	cache sync.Map // normalized raw text -> Proposal
}

func NewStandardizer(gen Generator, universities, programs *vocab.Vocabulary,
	fixes *vocab.FixTables, opts StandardizerOptions) *Standardizer {
	return &Standardizer{
		gen:          gen,
		universities: universities,
		programs:     programs,
		fixes:        fixes,
		opts:         opts,
	}
}

// Run standardizes one record. The returned record is always valid; a
// non-nil error only reports that the generator was unavailable and the
// record degraded to its original names.
func (s *Standardizer) Run(ctx context.Context, rec NormalizedRecord) (StandardizedRecord, error) {
	out := StandardizedRecord{
		NormalizedRecord:    rec,
		GeneratedUniversity: s.fixedOriginal(s.fixes.Universities, rec.University),
		GeneratedProgram:    s.fixedOriginal(s.fixes.Programs, rec.Program),
		Branch:              BranchUnchanged,
	}

	rawText := promptText(rec)
	if rawText == "" {
		return out, nil
	}

	proposal, err := s.propose(ctx, rawText)
	if err != nil {
		return out, err
	}

	// The guardrail compares the proposal against whatever original text the
	// generator saw: the university field, or the combined program cell when
	// the split never happened.
	original := rec.University
	if original == "" {
		original = rec.Program
	}

	university, branch := s.standardizeUniversity(proposal.University, original)
	out.GeneratedUniversity = university
	out.Branch = branch
	out.GeneratedProgram = s.standardizeProgram(proposal.Program, rec.Program)

	return out, nil
}

// propose consults the shared cache before calling the generator. Only
// successful proposals are cached; a failed record may succeed on a retry or
// a later batch.
func (s *Standardizer) propose(ctx context.Context, rawText string) (Proposal, error) {
	key := vocab.Normalize(rawText)
	if cached, ok := s.cache.Load(key); ok {
		return cached.(Proposal), nil
	}

	proposal, err := s.gen.ProposeNames(ctx, rawText)
	if err != nil {
		return Proposal{}, err
	}
	proposal.University = strings.TrimSpace(proposal.University)
	proposal.Program = strings.TrimSpace(proposal.Program)

	s.cache.LoadOrStore(key, proposal)
	return proposal, nil
}

// standardizeUniversity applies the guardrail state machine to the proposed
// university name: fix table first, then canonical repair, then the
// hallucination check against the original text.
func (s *Standardizer) standardizeUniversity(proposed, original string) (string, Branch) {
	if proposed == "" {
		return s.fixedOriginal(s.fixes.Universities, original), BranchRejectedToOriginal
	}

	if fixed, ok := s.fixes.Universities.Apply(proposed); ok {
		return fixed, BranchFixTable
	}

	if match, ok := s.universities.BestMatch(proposed, s.opts.UniversityThreshold); ok {
		return match.Name, BranchCanonicalMatch
	}

	if vocab.Similarity(proposed, original) < s.opts.DissimilarityBound {
		slog.Debug("Guardrail rejected proposal",
			"proposed", proposed,
			"original", original)
		return s.fixedOriginal(s.fixes.Universities, original), BranchRejectedToOriginal
	}

	return proposed, BranchAcceptedProposal
}

// standardizeProgram is the milder program-side variant: mis-normalized
// program names are less damaging than institution swaps, so proposals that
// miss the vocabulary are kept as long as they resemble the original.
func (s *Standardizer) standardizeProgram(proposed, original string) string {
	if proposed == "" {
		return s.fixedOriginal(s.fixes.Programs, original)
	}

	if fixed, ok := s.fixes.Programs.Apply(proposed); ok {
		return fixed
	}

	if match, ok := s.programs.BestMatch(proposed, s.opts.ProgramThreshold); ok {
		return match.Name
	}

	if original != "" && vocab.Similarity(proposed, original) < s.opts.DissimilarityBound {
		return s.fixedOriginal(s.fixes.Programs, original)
	}

	return proposed
}

// fixedOriginal runs the fix table over an original value so that mirror
// fallbacks still benefit from hand-maintained corrections.
func (s *Standardizer) fixedOriginal(table *vocab.FixTable, original string) string {
	if fixed, ok := table.Apply(original); ok {
		return fixed
	}
	return original
}

// promptText is the raw text handed to the generator: the university and
// program exactly as scraped, joined the way the site displays them.
func promptText(rec NormalizedRecord) string {
	switch {
	case rec.University != "" && rec.Program != "":
		return rec.University + " - " + rec.Program
	case rec.University != "":
		return rec.University
	default:
		return rec.Program
	}
}
