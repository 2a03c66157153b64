package service

// CandidateConfig controls trend candidate generation.
type CandidateConfig struct {
	Seeds         []string
	Patterns      []string
	Curated       []string
	MaxCandidates int
}

// defaultPatterns are the suffixes combined with each seed topic.
var defaultPatterns = []string{
	"aesthetic", "core", "wave", "vibes", "tok", "gram", "drop", "era",
	"challenge", "hack", "trend", "style", "fit", "haul", "unboxing",
}

// defaultCurated is a hand-picked list of trend ideas that always enters the
// candidate pool ahead of the generated combinations.
var defaultCurated = []string{
	"AI Art Generation", "Cottagecore Fashion", "Digital Minimalism",
	"Retro Gaming Revival", "Sustainable Fashion", "Micro Workouts",
	"Silent Walking", "Dopamine Decor", "Quiet Luxury", "Chromakopia",
	"Indie Sleaze Revival", "Mob Wife Aesthetic", "Cherry Cola Makeup",
	"Protein Coffee", "Strawberry Girl Aesthetic", "Coastal Grandmother",
	"Old Money Style", "Clean Girl Aesthetic", "Coquette Bow Trend",
	"Tomato Girl Summer", "Vanilla Girl Era", "Dark Academia",
	"Light Academia", "Balletcore", "Tenniscore", "Preppy Revival",
	"Y2K Fashion", "Barbiecore", "Mermaidcore", "Fairycore",
	"Goblincore", "Grandmacore", "Cottagecore", "Darkcore",
}

// DefaultCandidateConfig returns the candidate generation defaults. Seeds come
// from configuration; patterns and the curated list are fixed.
// Parameters:
//   - seeds: seed topics; each is combined with every pattern.
//   - maxCandidates: hard cap on the generated pool.
//
// Returns:
//   - CandidateConfig: ready-to-use generation config.
func DefaultCandidateConfig(seeds []string, maxCandidates int) CandidateConfig {
	return CandidateConfig{
		Seeds:         seeds,
		Patterns:      defaultPatterns,
		Curated:       defaultCurated,
		MaxCandidates: maxCandidates,
	}
}

// GenerateCandidates builds the deduplicated candidate pool: the curated list
// first, then every "<seed> <pattern>" combination. Dedup keeps the first
// occurrence so the ordering, and therefore the truncation, is deterministic.
// Parameters:
//   - cfg: generation config.
//
// Returns:
//   - []string: at most cfg.MaxCandidates candidate titles.
func GenerateCandidates(cfg CandidateConfig) []string {
	seen := make(map[string]struct{})
	candidates := make([]string, 0, len(cfg.Curated)+len(cfg.Seeds)*len(cfg.Patterns))

	add := func(title string) {
		if _, ok := seen[title]; ok {
			return
		}
		seen[title] = struct{}{}
		candidates = append(candidates, title)
	}

	for _, idea := range cfg.Curated {
		add(idea)
	}
	for _, seed := range cfg.Seeds {
		for _, pattern := range cfg.Patterns {
			add(seed + " " + pattern)
		}
	}

	if cfg.MaxCandidates > 0 && len(candidates) > cfg.MaxCandidates {
		candidates = candidates[:cfg.MaxCandidates]
	}
	return candidates
}
