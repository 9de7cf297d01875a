package narrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mwijanarko1/rijal/internal/grading"
	"github.com/mwijanarko1/rijal/internal/matching"
)

var (
	ErrNarratorNotFound = errors.New("narrator not found")
	ErrInvalidNarrator  = errors.New("narrator needs at least one name")
	ErrNameRequired     = errors.New("name is required")
)

const narratorColumns = `id, primary_arabic_name, primary_english_name, full_name_arabic,
	full_name_english, kunya, title, lineage, biography, taqrib_rank, ibn_hajar_rank,
	dhahabi_rank, generation, residence, birth_year, death_year, created_at, updated_at`

// Service provides narrator registry operations: CRUD, full-text search
// scored by the matching core, and identity resolution of free-text names.
type Service struct {
	db      *sql.DB
	matcher *matching.Matcher
	logger  zerolog.Logger
}

// NewService creates a new narrator service.
func NewService(db *sql.DB, matcher *matching.Matcher, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		matcher: matcher,
		logger:  logger.With().Str("component", "narrator").Logger(),
	}
}

// Create inserts a new narrator record.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Narrator, error) {
	if strings.TrimSpace(input.PrimaryArabicName) == "" && strings.TrimSpace(input.PrimaryEnglishName) == "" {
		return nil, ErrInvalidNarrator
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO narrators (id, primary_arabic_name, primary_english_name, full_name_arabic,
			full_name_english, kunya, title, lineage, biography, taqrib_rank, ibn_hajar_rank,
			dhahabi_rank, generation, residence, birth_year, death_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.PrimaryArabicName, input.PrimaryEnglishName, input.FullNameArabic,
		input.FullNameEnglish, input.Kunya, input.Title, input.Lineage, input.Biography,
		input.TaqribRank, input.IbnHajarRank, input.DhahabiRank, input.Generation,
		input.Residence, input.BirthYear, input.DeathYear)
	if err != nil {
		return nil, fmt.Errorf("failed to create narrator: %w", err)
	}

	s.logger.Info().Str("narratorId", id).Str("name", input.PrimaryArabicName).Msg("narrator created")
	return s.Get(ctx, id)
}

// Get retrieves a narrator by ID, including alternate names.
func (s *Service) Get(ctx context.Context, id string) (*Narrator, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+narratorColumns+` FROM narrators WHERE id = ?`, id)

	n, err := scanNarrator(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNarratorNotFound
		}
		return nil, fmt.Errorf("failed to get narrator: %w", err)
	}

	names, err := s.listNames(ctx, id)
	if err != nil {
		return nil, err
	}
	n.AlternateNames = names

	return n, nil
}

// List returns all narrators ordered by primary Arabic name. Alternate
// names are included so the result doubles as the matching registry.
func (s *Service) List(ctx context.Context) ([]*Narrator, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+narratorColumns+` FROM narrators ORDER BY primary_arabic_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list narrators: %w", err)
	}
	defer rows.Close()

	var narrators []*Narrator
	byID := make(map[string]*Narrator)
	for rows.Next() {
		n, err := scanNarrator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan narrator: %w", err)
		}
		narrators = append(narrators, n)
		byID[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	nameRows, err := s.db.QueryContext(ctx, `SELECT id, narrator_id, name, language FROM narrator_names ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list narrator names: %w", err)
	}
	defer nameRows.Close()

	for nameRows.Next() {
		var (
			v          NameVariant
			narratorID string
		)
		if err := nameRows.Scan(&v.ID, &narratorID, &v.Name, &v.Language); err != nil {
			return nil, fmt.Errorf("failed to scan narrator name: %w", err)
		}
		if n, ok := byID[narratorID]; ok {
			n.AlternateNames = append(n.AlternateNames, v)
		}
	}
	return narrators, nameRows.Err()
}

// Update applies a partial update to a narrator.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Narrator, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&current.PrimaryArabicName, input.PrimaryArabicName)
	apply(&current.PrimaryEnglishName, input.PrimaryEnglishName)
	apply(&current.FullNameArabic, input.FullNameArabic)
	apply(&current.FullNameEnglish, input.FullNameEnglish)
	apply(&current.Kunya, input.Kunya)
	apply(&current.Title, input.Title)
	apply(&current.Lineage, input.Lineage)
	apply(&current.Biography, input.Biography)
	apply(&current.TaqribRank, input.TaqribRank)
	apply(&current.IbnHajarRank, input.IbnHajarRank)
	apply(&current.DhahabiRank, input.DhahabiRank)
	apply(&current.Generation, input.Generation)
	apply(&current.Residence, input.Residence)
	apply(&current.BirthYear, input.BirthYear)
	apply(&current.DeathYear, input.DeathYear)

	if strings.TrimSpace(current.PrimaryArabicName) == "" && strings.TrimSpace(current.PrimaryEnglishName) == "" {
		return nil, ErrInvalidNarrator
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE narrators SET primary_arabic_name = ?, primary_english_name = ?,
			full_name_arabic = ?, full_name_english = ?, kunya = ?, title = ?, lineage = ?,
			biography = ?, taqrib_rank = ?, ibn_hajar_rank = ?, dhahabi_rank = ?,
			generation = ?, residence = ?, birth_year = ?, death_year = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		current.PrimaryArabicName, current.PrimaryEnglishName, current.FullNameArabic,
		current.FullNameEnglish, current.Kunya, current.Title, current.Lineage,
		current.Biography, current.TaqribRank, current.IbnHajarRank, current.DhahabiRank,
		current.Generation, current.Residence, current.BirthYear, current.DeathYear, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update narrator: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete removes a narrator and its dependent rows.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM narrators WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete narrator: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNarratorNotFound
	}
	return nil
}

// AddName records an alternate name variant for a narrator.
func (s *Service) AddName(ctx context.Context, narratorID, name, language string) (*NameVariant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if language != "en" {
		language = "ar"
	}
	if _, err := s.Get(ctx, narratorID); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO narrator_names (narrator_id, name, language) VALUES (?, ?, ?)`,
		narratorID, name, language)
	if err != nil {
		return nil, fmt.Errorf("failed to add name: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &NameVariant{ID: id, Name: name, Language: language}, nil
}

// DeleteName removes an alternate name variant.
func (s *Service) DeleteName(ctx context.Context, narratorID string, nameID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM narrator_names WHERE id = ? AND narrator_id = ?`, nameID, narratorID)
	if err != nil {
		return fmt.Errorf("failed to delete name: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNarratorNotFound
	}
	return nil
}

// AddOpinion records a scholar's grading opinion.
func (s *Service) AddOpinion(ctx context.Context, narratorID, scholar, opinion string) (*Opinion, error) {
	if strings.TrimSpace(opinion) == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.Get(ctx, narratorID); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO narrator_opinions (narrator_id, scholar, opinion) VALUES (?, ?, ?)`,
		narratorID, scholar, opinion)
	if err != nil {
		return nil, fmt.Errorf("failed to add opinion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Opinion{
		ID:         id,
		Scholar:    scholar,
		Opinion:    opinion,
		Reputation: grading.ExtractReputation(opinion),
	}, nil
}

// ListOpinions returns a narrator's grading opinions with the reputation
// label extracted from each opinion text.
func (s *Service) ListOpinions(ctx context.Context, narratorID string) ([]Opinion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scholar, opinion FROM narrator_opinions WHERE narrator_id = ? ORDER BY id`, narratorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list opinions: %w", err)
	}
	defer rows.Close()

	opinions := make([]Opinion, 0)
	for rows.Next() {
		var o Opinion
		if err := rows.Scan(&o.ID, &o.Scholar, &o.Opinion); err != nil {
			return nil, fmt.Errorf("failed to scan opinion: %w", err)
		}
		o.Reputation = grading.ExtractReputation(o.Opinion)
		opinions = append(opinions, o)
	}
	return opinions, rows.Err()
}

// Match resolves a free-text narrator name against the full registry and
// returns ranked candidates. An empty request yields an empty result.
func (s *Service) Match(ctx context.Context, req MatchRequest) ([]matching.MatchCandidate, error) {
	arabic := strings.TrimSpace(req.ArabicName)
	english := strings.TrimSpace(req.EnglishName)
	if arabic == "" && english == "" {
		return nil, nil
	}

	// Queries may arrive in either field regardless of script; route each
	// to the path its script belongs to.
	if arabic == "" && matching.IsArabicScript(english) {
		arabic, english = english, ""
	} else if english == "" && arabic != "" && !matching.IsArabicScript(arabic) {
		arabic, english = "", arabic
	}

	registry, err := s.registry(ctx, matching.SearchFilters{})
	if err != nil {
		return nil, err
	}

	return s.matcher.FindMatches(registry, arabic, english), nil
}

// Search scores the registry against free-text terms with classification
// filters applied, ordered by relevance.
func (s *Service) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}
	if opts.PageSize > 200 {
		opts.PageSize = 200
	}

	narrators, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	originalTerms := strings.Fields(opts.Query)
	normalizedTerms := make([]string, len(originalTerms))
	for i, t := range originalTerms {
		normalizedTerms[i] = matching.NormalizeSearchTerm(t)
	}

	var results []SearchResult
	for _, n := range narrators {
		rec := toRecord(n)
		if !opts.Filters.Matches(rec) {
			continue
		}

		score := 0.0
		if len(normalizedTerms) > 0 {
			score = matching.RelevanceScore(rec, normalizedTerms, originalTerms)
			if score <= 0 {
				continue
			}
		}
		results = append(results, SearchResult{Narrator: n, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Narrator.PrimaryArabicName < results[j].Narrator.PrimaryArabicName
	})

	total := len(results)
	start := (opts.Page - 1) * opts.PageSize
	if start > total {
		start = total
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}

	return &SearchResponse{
		Items:      results[start:end],
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalCount: total,
	}, nil
}

// registry loads the full candidate set as matching records.
func (s *Service) registry(ctx context.Context, filters matching.SearchFilters) ([]*matching.NarratorRecord, error) {
	narrators, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*matching.NarratorRecord, 0, len(narrators))
	for _, n := range narrators {
		rec := toRecord(n)
		if filters.Matches(rec) {
			records = append(records, rec)
		}
	}
	return records, nil
}

// toRecord converts a stored narrator to the read-only view the matching
// core scores against.
func toRecord(n *Narrator) *matching.NarratorRecord {
	rec := &matching.NarratorRecord{
		ID:                 n.ID,
		PrimaryArabicName:  n.PrimaryArabicName,
		PrimaryEnglishName: n.PrimaryEnglishName,
		FullNameArabic:     n.FullNameArabic,
		FullNameEnglish:    n.FullNameEnglish,
		Kunya:              n.Kunya,
		Title:              n.Title,
		Lineage:            n.Lineage,
		Biography:          n.Biography,
		TaqribRank:         n.TaqribRank,
		IbnHajarRank:       n.IbnHajarRank,
		DhahabiRank:        n.DhahabiRank,
		Generation:         n.Generation,
		Residence:          n.Residence,
	}
	for _, v := range n.AlternateNames {
		if v.Language == "en" {
			rec.AlternateEnglishNames = append(rec.AlternateEnglishNames, v.Name)
		} else {
			rec.AlternateArabicNames = append(rec.AlternateArabicNames, v.Name)
		}
	}
	return rec
}

func (s *Service) listNames(ctx context.Context, narratorID string) ([]NameVariant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, language FROM narrator_names WHERE narrator_id = ? ORDER BY id`, narratorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}
	defer rows.Close()

	var names []NameVariant
	for rows.Next() {
		var v NameVariant
		if err := rows.Scan(&v.ID, &v.Name, &v.Language); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, v)
	}
	return names, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNarrator(row rowScanner) (*Narrator, error) {
	var n Narrator
	err := row.Scan(&n.ID, &n.PrimaryArabicName, &n.PrimaryEnglishName, &n.FullNameArabic,
		&n.FullNameEnglish, &n.Kunya, &n.Title, &n.Lineage, &n.Biography, &n.TaqribRank,
		&n.IbnHajarRank, &n.DhahabiRank, &n.Generation, &n.Residence, &n.BirthYear,
		&n.DeathYear, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
