package scheduler

import (
	"context"

	"github.com/mwijanarko1/rijal/internal/hadith"
	"github.com/mwijanarko1/rijal/internal/importer"
)

// RegisterSourceSync schedules the Shamela source sync.
func RegisterSourceSync(s *Scheduler, imp *importer.Service, cron string) error {
	return s.RegisterTask(TaskConfig{
		ID:          "source-sync",
		Name:        "Source Sync",
		Description: "Fetch configured Shamela sources and import new hadiths",
		Cron:        cron,
		Func: func(ctx context.Context) error {
			return imp.SyncSources(ctx)
		},
	})
}

// RegisterChainResolution schedules the weekly pass that retries
// resolution of chain links still missing a narrator.
func RegisterChainResolution(s *Scheduler, hadiths *hadith.Service) error {
	return s.RegisterTask(TaskConfig{
		ID:          "chain-resolution",
		Name:        "Chain Resolution",
		Description: "Re-resolve unresolved isnad links against the registry",
		Cron:        "0 4 * * 0",
		Func: func(ctx context.Context) error {
			_, err := hadiths.ResolveAllUnresolved(ctx)
			return err
		},
	})
}
