package app

import (
	"context"
	"io"
	"os"

	"github.com/doeshing/vibe-go/internal/application/completion"
	"github.com/doeshing/vibe-go/internal/application/doctor"
	"github.com/doeshing/vibe-go/internal/application/multiedit"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/infrastructure/config"
	"github.com/doeshing/vibe-go/internal/infrastructure/history"
	"github.com/doeshing/vibe-go/internal/infrastructure/openrouter"
	"github.com/doeshing/vibe-go/internal/infrastructure/security"
	"github.com/doeshing/vibe-go/internal/infrastructure/workspace"
	"github.com/doeshing/vibe-go/internal/pkg/logger"
	"github.com/doeshing/vibe-go/internal/pkg/unidiff"
	"github.com/doeshing/vibe-go/internal/ports"
)

// Options controls how the container is assembled.
type Options struct {
	Env         config.Env
	Verbose     bool
	Interactive bool
	// Color enables styled previews.
	Color bool
	// WorkDir is the root for edits, the current directory when empty.
	WorkDir string
	// LogOutput defaults to stderr.
	LogOutput io.Writer
	// HistoryPath overrides the history database location.
	HistoryPath string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Env               config.Env
	Interactive       bool
	WorkDir           string
	Logger            ports.Logger
	ConfigProvider    ports.ConfigProvider
	ConfigLoader      *config.FileLoader
	CompletionService *completion.Service
	EditService       *multiedit.Service
	DoctorService     *doctor.Service
	HistoryStore      ports.HistoryRepository
	Clipboard         ports.Clipboard

	history *history.SQLiteStore
}

// BuildContainer constructs the dependency graph. Prompter and clipboard
// adapters are attached by the CLI after construction.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	logOut := opts.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	log := logger.New(logOut, opts.Verbose || opts.Env.Debug)

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		workDir = wd
	}

	cfgLoader := config.NewFileLoader(opts.Env.ConfigPath, log)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	historyStore := history.NewSQLiteStore(opts.HistoryPath)
	if historyStore.Degraded() {
		log.Warn("history database unavailable, using JSONL file", map[string]interface{}{"path": historyStore.Path()})
	}

	guard, err := security.NewPathGuard(cfg.Security.RulesFile)
	if err != nil {
		log.Warn("path guard rules rejected, using built-in rules", map[string]interface{}{
			"file":  cfg.Security.RulesFile,
			"error": err.Error(),
		})
		guard, err = security.NewPathGuard("")
		if err != nil {
			return nil, err
		}
	}

	baseURL := opts.Env.BaseURL
	if baseURL == "" {
		baseURL = cfg.OpenRouter.BaseURL
	}
	transport := openrouter.NewClient(
		openrouter.WithBaseURL(baseURL),
		openrouter.WithRetries(cfg.TransportRetries()),
	)

	completionService := &completion.Service{
		ConfigProvider: cfgLoader,
		Transport:      transport,
		Sleeper:        completion.ContextSleeper{},
		HistoryStore:   historyStore,
		Logger:         log,
		Session:        completion.NewSession(opts.Interactive, opts.Env.OpenRouterKey()),
	}

	editService := &multiedit.Service{
		Scanner:      workspace.NewScanner(workDir),
		Completer:    completionService,
		Workspace:    workspace.NewFiles(workDir),
		Guard:        guard,
		HistoryStore: historyStore,
		Logger:       log,
		Styles:       unidiff.Styles{},
	}
	if opts.Color {
		editService.Styles = unidiff.ColorStyles(cfg.ThemeName())
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		ConfigFile:     cfgLoader,
		Keys:           completionService,
		Guard:          guard,
		HistoryStore:   historyStore,
		Git: func(ctx context.Context) *doctor.GitStatus {
			status := workspace.CollectGitStatus(ctx, workDir)
			if status == nil {
				return nil
			}
			return &doctor.GitStatus{
				Branch:         status.Branch,
				ModifiedCount:  status.ModifiedCount,
				UntrackedCount: status.UntrackedCount,
			}
		},
	}

	return &Container{
		Env:               opts.Env,
		Interactive:       opts.Interactive,
		WorkDir:           workDir,
		Logger:            log,
		ConfigProvider:    cfgLoader,
		ConfigLoader:      cfgLoader,
		CompletionService: completionService,
		EditService:       editService,
		DoctorService:     doctorService,
		HistoryStore:      historyStore,
		history:           historyStore,
	}, nil
}

// AttachPrompter gives every service that asks questions the same prompter.
func (c *Container) AttachPrompter(p ports.Prompter) {
	c.CompletionService.Prompter = p
	c.EditService.Prompter = p
}

// EditOptions returns the default edit options for this process.
func (c *Container) EditOptions() domain.EditOptions {
	opts := domain.DefaultEditOptions()
	opts.Interactive = c.Interactive
	return opts
}

// Close releases the history database.
func (c *Container) Close() error {
	if c.history == nil {
		return nil
	}
	return c.history.Close()
}
