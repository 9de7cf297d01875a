// Package importer loads hadith and narrator data into the registry,
// either from the Shamela scraper or from uploaded JSON dumps. Progress
// is broadcast over the websocket hub so the browser can follow along.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mwijanarko1/rijal/internal/hadith"
	"github.com/mwijanarko1/rijal/internal/narrator"
	"github.com/mwijanarko1/rijal/internal/shamela"
)

// Broadcaster pushes progress events to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// Progress is one import progress event.
type Progress struct {
	Source   string `json:"source"`
	Page     int    `json:"page,omitempty"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Service runs imports. At most one import runs at a time.
type Service struct {
	hadiths   *hadith.Service
	narrators *narrator.Service
	client    *shamela.Client
	hub       Broadcaster
	logger    zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewService creates a new importer.
func NewService(hadiths *hadith.Service, narrators *narrator.Service, client *shamela.Client, hub Broadcaster, logger zerolog.Logger) *Service {
	return &Service{
		hadiths:   hadiths,
		narrators: narrators,
		client:    client,
		hub:       hub,
		logger:    logger.With().Str("component", "importer").Logger(),
	}
}

// Running reports whether an import is in progress.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Service) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// ErrImportRunning is returned when an import is already in progress.
var ErrImportRunning = fmt.Errorf("an import is already running")

// SyncSources fetches every configured Shamela source and imports the
// text blocks found on each page as hadiths.
func (s *Service) SyncSources(ctx context.Context) error {
	if !s.begin() {
		return ErrImportRunning
	}
	defer s.end()

	sources, err := shamela.LoadSources()
	if err != nil {
		return err
	}

	for _, src := range sources {
		if err := s.importSource(ctx, src); err != nil {
			s.broadcast(Progress{Source: src.Collection, Done: true, Error: err.Error()})
			return err
		}
	}
	return nil
}

func (s *Service) importSource(ctx context.Context, src shamela.Source) error {
	s.logger.Info().Str("collection", src.Collection).Int("bookId", src.BookID).Msg("import started")

	imported, skipped := 0, 0
	for pageNum := src.StartPage; pageNum <= src.EndPage; pageNum++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.client.FetchPage(ctx, src.BookID, pageNum)
		if err != nil {
			return fmt.Errorf("page %d: %w", pageNum, err)
		}

		for _, entry := range page.Entries {
			created, err := s.importEntry(ctx, src, page, pageNum, entry)
			if err != nil {
				return err
			}
			if created {
				imported++
			} else {
				skipped++
			}
		}

		s.broadcast(Progress{Source: src.Collection, Page: pageNum, Imported: imported, Skipped: skipped})
	}

	s.broadcast(Progress{Source: src.Collection, Imported: imported, Skipped: skipped, Done: true})
	s.logger.Info().
		Str("collection", src.Collection).
		Int("imported", imported).
		Int("skipped", skipped).
		Msg("import finished")
	return nil
}

// importEntry stores one text block unless the same text is already in
// the collection. Reports whether a hadith was created.
func (s *Service) importEntry(ctx context.Context, src shamela.Source, page *shamela.Page, pageNum int, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	exists, err := s.hadiths.ExistsInCollection(ctx, src.Collection, text)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	number := page.PageNumber
	if number == "" {
		number = fmt.Sprintf("%d", pageNum)
	}

	_, err = s.hadiths.Create(ctx, hadith.CreateInput{
		Collection: src.Collection,
		Number:     number,
		ArabicText: text,
		SourceURL:  shamela.PageURL(src.BookID, pageNum),
	})
	if err != nil {
		return false, fmt.Errorf("failed to store entry: %w", err)
	}
	return true, nil
}

// narratorDump is the JSON shape accepted by ImportNarrators.
type narratorDump struct {
	Narrators []struct {
		narrator.CreateInput
		AlternateArabicNames  []string `json:"alternateArabicNames"`
		AlternateEnglishNames []string `json:"alternateEnglishNames"`
		Opinions              []struct {
			Scholar string `json:"scholar"`
			Opinion string `json:"opinion"`
		} `json:"opinions"`
	} `json:"narrators"`
}

// ImportNarrators loads a JSON dump of narrator records, with optional
// alternate names and grading opinions per record.
func (s *Service) ImportNarrators(ctx context.Context, r io.Reader) (int, error) {
	if !s.begin() {
		return 0, ErrImportRunning
	}
	defer s.end()

	var dump narratorDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return 0, fmt.Errorf("failed to decode narrator dump: %w", err)
	}

	imported := 0
	for _, entry := range dump.Narrators {
		if err := ctx.Err(); err != nil {
			return imported, err
		}

		n, err := s.narrators.Create(ctx, entry.CreateInput)
		if err != nil {
			s.logger.Warn().Err(err).Str("name", entry.PrimaryArabicName).Msg("narrator skipped")
			continue
		}
		for _, name := range entry.AlternateArabicNames {
			if _, err := s.narrators.AddName(ctx, n.ID, name, "ar"); err != nil {
				return imported, err
			}
		}
		for _, name := range entry.AlternateEnglishNames {
			if _, err := s.narrators.AddName(ctx, n.ID, name, "en"); err != nil {
				return imported, err
			}
		}
		for _, op := range entry.Opinions {
			if _, err := s.narrators.AddOpinion(ctx, n.ID, op.Scholar, op.Opinion); err != nil {
				return imported, err
			}
		}
		imported++

		if imported%100 == 0 {
			s.broadcast(Progress{Source: "narrators", Imported: imported})
		}
	}

	s.broadcast(Progress{Source: "narrators", Imported: imported, Done: true})
	s.logger.Info().Int("imported", imported).Msg("narrator import finished")
	return imported, nil
}

func (s *Service) broadcast(p Progress) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Broadcast("import:progress", p); err != nil {
		s.logger.Warn().Err(err).Msg("progress broadcast failed")
	}
}
