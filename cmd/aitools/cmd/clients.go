package cmd

import (
	"fmt"

	"github.com/mfenderov/aitools/internal/catalog"
	"github.com/mfenderov/aitools/internal/config"
	"github.com/mfenderov/aitools/internal/directory"
	"github.com/mfenderov/aitools/internal/elasticsearch"
	"github.com/mfenderov/aitools/internal/scraper"
	"github.com/mfenderov/aitools/internal/storage"
)

func newStorageClient(cfg config.Storage) (*storage.Client, error) {
	client, err := storage.New(storage.Config{
		Endpoint:        cfg.Endpoint,
		Bucket:          cfg.Bucket,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UseSSL:          cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

func newESClient(cfg config.Elasticsearch) (*elasticsearch.Client, error) {
	client, err := elasticsearch.New(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Index:     cfg.Index,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	return client, nil
}

func newScraper(cfg config.Scraper) *scraper.Scraper {
	return scraper.New(scraper.Config{
		Delay:        cfg.Delay,
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
		MaxTools:     cfg.MaxTools,
		LinkSelector: cfg.LinkSelector,
		Selectors: scraper.Selectors{
			Name:        cfg.Selectors.Name,
			Description: cfg.Selectors.Description,
			Website:     cfg.Selectors.Website,
			Categories:  cfg.Selectors.Categories,
			Pricing:     cfg.Selectors.Pricing,
			Features:    cfg.Selectors.Features,
			Rating:      cfg.Selectors.Rating,
			Reviews:     cfg.Selectors.Reviews,
		},
	})
}

// loadDirectory opens the configured snapshot.
func loadDirectory(cfg config.Catalog) (*directory.Service, *catalog.Snapshot, error) {
	store, snap, err := catalog.LoadFile(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog (run 'aitools scrape' or 'aitools pull' first): %w", err)
	}
	return directory.New(store), snap, nil
}
