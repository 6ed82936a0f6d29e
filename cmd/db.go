package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/IshwariGadewar/SmartBasket/internal/utils"
	"github.com/IshwariGadewar/SmartBasket/pkg/aggregator"
	"github.com/IshwariGadewar/SmartBasket/pkg/ai"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms/amazon"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms/blinkit"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms/instamart"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms/zepto"
	"github.com/IshwariGadewar/SmartBasket/pkg/search"
	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

// openDB resolves the database path from the --db flag, ensures its
// directory exists, and opens the store.
func openDB() (*storage.DB, error) {
	dbFlag, _ := rootCmd.PersistentFlags().GetString("db")
	path, err := utils.GetAbsDBPath(dbFlag)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create database directory: %w", err)
	}
	return storage.Open(path)
}

// lockDB acquires the cross-process write lock for the database path.
func lockDB() (*utils.DBLock, error) {
	dbFlag, _ := rootCmd.PersistentFlags().GetString("db")
	lock, err := utils.NewDBLock(dbFlag)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	return lock, nil
}

// newRegistry wires every platform adapter.
func newRegistry() *platforms.Registry {
	return platforms.NewRegistry(
		&amazon.Fetcher{},
		&blinkit.Fetcher{},
		&zepto.Fetcher{},
		&instamart.Fetcher{},
	)
}

// newAIClient builds the semantic collaborator client from config, or nil
// when no key is configured; callers then rely on deterministic fallbacks.
func newAIClient() *ai.Client {
	apiKey := viper.GetString("openai.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil
	}
	client, err := ai.NewClient(ai.Config{
		APIKey: apiKey,
		Model:  viper.GetString("openai.model"),
	})
	if err != nil {
		utils.Log.Warnf("AI client disabled: %v", err)
		return nil
	}
	return client
}

// newSearchService assembles the full pipeline over an open store.
func newSearchService(db *storage.DB) *search.Service {
	svc := &search.Service{
		Aggregator: aggregator.New(newRegistry()),
		DB:         db,
		Log:        utils.Log,
	}
	if client := newAIClient(); client != nil {
		svc.Matcher = client
		svc.Analyst = client
	}
	return svc
}
