package hadith

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mwijanarko1/rijal/internal/narrator"
)

var (
	ErrHadithNotFound = errors.New("hadith not found")
	ErrChainNotFound  = errors.New("chain not found")
	ErrInvalidHadith  = errors.New("hadith needs a collection and arabic text")
	ErrEmptyChain     = errors.New("chain needs at least one narrator name")
)

// Service provides hadith and isnad chain operations, including
// resolution of raw chain names against the narrator registry.
type Service struct {
	db        *sql.DB
	narrators *narrator.Service
	logger    zerolog.Logger
}

// NewService creates a new hadith service.
func NewService(db *sql.DB, narrators *narrator.Service, logger zerolog.Logger) *Service {
	return &Service{
		db:        db,
		narrators: narrators,
		logger:    logger.With().Str("component", "hadith").Logger(),
	}
}

// Create inserts a new hadith.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Hadith, error) {
	if strings.TrimSpace(input.Collection) == "" || strings.TrimSpace(input.ArabicText) == "" {
		return nil, ErrInvalidHadith
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hadiths (id, collection, number, arabic_text, english_text, source_url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, input.Collection, input.Number, input.ArabicText, input.EnglishText, input.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create hadith: %w", err)
	}

	return s.Get(ctx, id)
}

// Get retrieves a hadith with its chains.
func (s *Service) Get(ctx context.Context, id string) (*Hadith, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, collection, number, arabic_text, english_text, source_url, created_at, updated_at
		FROM hadiths WHERE id = ?`, id)

	var h Hadith
	err := row.Scan(&h.ID, &h.Collection, &h.Number, &h.ArabicText, &h.EnglishText,
		&h.SourceURL, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHadithNotFound
		}
		return nil, fmt.Errorf("failed to get hadith: %w", err)
	}

	chains, err := s.ListChains(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Chains = chains

	return &h, nil
}

// List returns a page of hadiths, optionally filtered by collection.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}
	if opts.PageSize > 200 {
		opts.PageSize = 200
	}

	where := ""
	args := []any{}
	if opts.Collection != "" {
		where = " WHERE collection = ?"
		args = append(args, opts.Collection)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hadiths`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count hadiths: %w", err)
	}

	args = append(args, opts.PageSize, (opts.Page-1)*opts.PageSize)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, collection, number, arabic_text, english_text, source_url, created_at, updated_at
		FROM hadiths`+where+` ORDER BY collection, number LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hadiths: %w", err)
	}
	defer rows.Close()

	items := make([]*Hadith, 0)
	for rows.Next() {
		var h Hadith
		if err := rows.Scan(&h.ID, &h.Collection, &h.Number, &h.ArabicText, &h.EnglishText,
			&h.SourceURL, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hadith: %w", err)
		}
		items = append(items, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ListResponse{
		Items:      items,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalCount: total,
	}, nil
}

// Update applies a partial update to a hadith.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Hadith, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&current.Collection, input.Collection)
	apply(&current.Number, input.Number)
	apply(&current.ArabicText, input.ArabicText)
	apply(&current.EnglishText, input.EnglishText)
	apply(&current.SourceURL, input.SourceURL)

	if strings.TrimSpace(current.Collection) == "" || strings.TrimSpace(current.ArabicText) == "" {
		return nil, ErrInvalidHadith
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE hadiths SET collection = ?, number = ?, arabic_text = ?, english_text = ?,
			source_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		current.Collection, current.Number, current.ArabicText, current.EnglishText,
		current.SourceURL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update hadith: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete removes a hadith and its chains.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM hadiths WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hadith: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrHadithNotFound
	}
	return nil
}

// ExistsInCollection reports whether a hadith with the same Arabic text
// is already stored in a collection. Used by the importer for dedup.
func (s *Service) ExistsInCollection(ctx context.Context, collection, arabicText string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM hadiths WHERE collection = ? AND arabic_text = ?`,
		collection, arabicText).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate: %w", err)
	}
	return n > 0, nil
}

// CreateChain records an isnad for a hadith. Names are stored in order
// with position 0 closest to the collector.
func (s *Service) CreateChain(ctx context.Context, hadithID string, input CreateChainInput) (*Chain, error) {
	names := make([]string, 0, len(input.RawNames))
	for _, n := range input.RawNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil, ErrEmptyChain
	}
	if _, err := s.Get(ctx, hadithID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	chainID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chains (id, hadith_id, label) VALUES (?, ?, ?)`,
		chainID, hadithID, input.Label); err != nil {
		return nil, fmt.Errorf("failed to create chain: %w", err)
	}
	for i, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chain_links (chain_id, position, raw_name) VALUES (?, ?, ?)`,
			chainID, i, name); err != nil {
			return nil, fmt.Errorf("failed to create chain link: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit chain: %w", err)
	}

	return s.GetChain(ctx, chainID)
}

// GetChain retrieves a chain with its ordered links.
func (s *Service) GetChain(ctx context.Context, chainID string) (*Chain, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, hadith_id, label FROM chains WHERE id = ?`, chainID)

	var c Chain
	if err := row.Scan(&c.ID, &c.HadithID, &c.Label); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChainNotFound
		}
		return nil, fmt.Errorf("failed to get chain: %w", err)
	}

	links, err := s.listLinks(ctx, chainID)
	if err != nil {
		return nil, err
	}
	c.Links = links

	return &c, nil
}

// ListChains returns all chains of a hadith with their links.
func (s *Service) ListChains(ctx context.Context, hadithID string) ([]Chain, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hadith_id, label FROM chains WHERE hadith_id = ? ORDER BY created_at, id`, hadithID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	defer rows.Close()

	chains := make([]Chain, 0)
	for rows.Next() {
		var c Chain
		if err := rows.Scan(&c.ID, &c.HadithID, &c.Label); err != nil {
			return nil, fmt.Errorf("failed to scan chain: %w", err)
		}
		chains = append(chains, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range chains {
		links, err := s.listLinks(ctx, chains[i].ID)
		if err != nil {
			return nil, err
		}
		chains[i].Links = links
	}
	return chains, nil
}

// DeleteChain removes a chain and its links.
func (s *Service) DeleteChain(ctx context.Context, chainID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chains WHERE id = ?`, chainID)
	if err != nil {
		return fmt.Errorf("failed to delete chain: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrChainNotFound
	}
	return nil
}

// ResolveChain matches each unresolved link's raw name against the
// narrator registry and stores the top candidate. Links whose best
// candidate falls below the confidence floor stay unresolved.
func (s *Service) ResolveChain(ctx context.Context, chainID string) (*ResolveResult, error) {
	chain, err := s.GetChain(ctx, chainID)
	if err != nil {
		return nil, err
	}

	resolved := 0
	for _, link := range chain.Links {
		if link.NarratorID != "" {
			resolved++
			continue
		}

		candidates, err := s.narrators.Match(ctx, narrator.MatchRequest{ArabicName: link.RawName})
		if err != nil {
			return nil, fmt.Errorf("failed to match link %d: %w", link.Position, err)
		}
		if len(candidates) == 0 {
			continue
		}

		top := candidates[0]
		if _, err := s.db.ExecContext(ctx,
			`UPDATE chain_links SET narrator_id = ?, confidence = ? WHERE id = ?`,
			top.NarratorID, top.Confidence, link.ID); err != nil {
			return nil, fmt.Errorf("failed to store resolution: %w", err)
		}
		resolved++

		s.logger.Debug().
			Str("chainId", chainID).
			Int("position", link.Position).
			Str("rawName", link.RawName).
			Str("narratorId", top.NarratorID).
			Float64("confidence", top.Confidence).
			Msg("chain link resolved")
	}

	chain, err = s.GetChain(ctx, chainID)
	if err != nil {
		return nil, err
	}

	return &ResolveResult{
		ChainID:  chainID,
		Resolved: resolved,
		Total:    len(chain.Links),
		Links:    chain.Links,
	}, nil
}

// ResolveAllUnresolved re-runs resolution for every chain that still has
// unresolved links. Used by the scheduler after registry imports.
func (s *Service) ResolveAllUnresolved(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT chain_id FROM chain_links
		WHERE narrator_id IS NULL OR narrator_id = ''`)
	if err != nil {
		return 0, fmt.Errorf("failed to find unresolved chains: %w", err)
	}
	defer rows.Close()

	var chainIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		chainIDs = append(chainIDs, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	resolved := 0
	for _, id := range chainIDs {
		result, err := s.ResolveChain(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("chainId", id).Msg("chain resolution failed")
			continue
		}
		resolved += result.Resolved
	}
	return resolved, nil
}

func (s *Service) listLinks(ctx context.Context, chainID string) ([]ChainLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, position, raw_name, COALESCE(narrator_id, ''), confidence
		FROM chain_links WHERE chain_id = ? ORDER BY position`, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chain links: %w", err)
	}
	defer rows.Close()

	links := make([]ChainLink, 0)
	for rows.Next() {
		var l ChainLink
		if err := rows.Scan(&l.ID, &l.Position, &l.RawName, &l.NarratorID, &l.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan chain link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
