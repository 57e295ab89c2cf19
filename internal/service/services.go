// Package service provides the business logic layer for the tally
// application: session lifecycle, manual entry maintenance, the query
// engine, and CSV interchange. It wraps the underlying storage, roster,
// clients, and config packages, providing a clean API for the CLI, TUI,
// and HTTP frontends.
package service

import (
	"time"

	"tally/internal/clients"
	"tally/internal/config"
	"tally/internal/roster"
	"tally/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Session     *SessionService
	Entry       *EntryService
	Query       *QueryService
	Interchange *InterchangeService
	Clients     *clients.Store
	Config      config.Config

	store *storage.Store
}

// NewServices creates a Services instance with default paths: config,
// database, roster, and clients table all live in the user config
// directory unless the config file points elsewhere. The database schema
// is brought up to date before any service can issue a query.
func NewServices() (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		if dbPath, err = storage.GetDatabasePath(); err != nil {
			return nil, err
		}
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}

	rosterPath := cfg.RosterPath
	if rosterPath == "" {
		if rosterPath, err = roster.GetRosterPath(); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	clientsPath := cfg.ClientsPath
	if clientsPath == "" {
		if clientsPath, err = clients.GetTablePath(); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return NewServicesWithDeps(store, roster.Load(rosterPath), clients.NewStore(clientsPath), cfg)
}

// NewServicesWithDeps creates a Services instance from explicit
// collaborators (useful for testing)
func NewServicesWithDeps(store *storage.Store, r *roster.Roster, clientStore *clients.Store, cfg config.Config) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	session := NewSessionService(store, r, loc)
	entrySvc := NewEntryService(store, r, loc)
	query := NewQueryService(store, loc, cfg.DefaultLimit)
	interchange := NewInterchangeService(store, r, query, loc)

	return &Services{
		Session:     session,
		Entry:       entrySvc,
		Query:       query,
		Interchange: interchange,
		Clients:     clientStore,
		Config:      cfg,
		store:       store,
	}, nil
}

// Close releases the underlying store
func (s *Services) Close() error {
	return s.store.Close()
}

// nowIn returns the current time in loc; split out so tests can pin it
func nowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}
