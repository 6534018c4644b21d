package bootstrap

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"

	gpainadapter "gpacalc/internal/modules/gpa/adapter/in"
	gpaoutadapter "gpacalc/internal/modules/gpa/adapter/out"
	gpaservice "gpacalc/internal/modules/gpa/service"
	gpausecase "gpacalc/internal/modules/gpa/usecase"
	"gpacalc/internal/platform/clock"
	"gpacalc/internal/platform/config"
	"gpacalc/internal/platform/id"
	"gpacalc/internal/platform/logging"
	"gpacalc/internal/platform/tx"
	uiapp "gpacalc/internal/ui/app"
)

type App struct {
	Config config.Config
	GPACLI gpainadapter.CLIHandler
	Logger log.Logger

	index     io.Closer
	logCloser io.Closer
}

func New(cfg config.Config) (*App, error) {
	logger, closer, err := logging.NewFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	logger = log.With(logger, "component", "gpa")

	index, err := gpaoutadapter.NewSQLiteReportIndex(cfg.DBPath)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("new report index: %w", err)
	}
	svc := gpaservice.NewGPAService(
		clock.SystemClock{},
		id.UUID{},
		logger,
		gpaoutadapter.NewVaultReportStore(cfg.ReportsDir),
		gpaoutadapter.NewXLSXWorkbookWriter(cfg.ReportsDir),
		index,
	)
	uc := gpausecase.NewInteractor(svc, tx.Journal{})

	return &App{
		Config:    cfg,
		GPACLI:    gpainadapter.NewCLIHandler(uc),
		Logger:    logger,
		index:     index,
		logCloser: closer,
	}, nil
}

// Close releases the report index and the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range []io.Closer{a.index, a.logCloser} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.GPACLI, app.Config.Report.Label, app.Config.Report.Formats)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
