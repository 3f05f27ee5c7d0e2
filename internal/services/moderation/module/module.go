// Package module wires the moderation pipeline and its collaborators
package module

import (
	"context"

	"adwarden/internal/adapters/llm"
	"adwarden/internal/adapters/onebot"
	"adwarden/internal/core/admission"
	"adwarden/internal/core/cloudrules"
	"adwarden/internal/core/forward"
	"adwarden/internal/core/linkscan"
	"adwarden/internal/core/offense"
	"adwarden/internal/modkit"
	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/services/moderation/domain"
	"adwarden/internal/services/moderation/service"
	statsdom "adwarden/internal/services/msgstats/domain"
	verdictdom "adwarden/internal/services/verdicts/domain"
)

// Ports exposed by the moderation module
type Ports struct {
	Inspector  domain.InspectorPort
	Classifier *llm.Classifier
	Queue      *admission.Dispatcher
	Vision     *llm.Vision
	Forwards   *forward.Resolver
	Offenses   *offense.Tracker
	Keywords   *cloudrules.Manager
	Links      *linkscan.Scanner
}

// Module implements the moderation service module
type Module struct {
	opt   service.Options
	ports Ports
}

// New builds every collaborator from config. stats and verdicts may be nil
func New(deps modkit.Deps, stats statsdom.RecorderPort, verdicts verdictdom.WriterPort) *Module {
	opt := FromConfig(deps.Cfg)
	log := deps.Log.With().Str("module", "moderation").Logger()

	cls := llm.New(llm.FromConfig(deps.Cfg))
	queue := admission.New(func(ctx context.Context, text string) (bool, error) {
		return cls.Classify(ctx, text, opt.Sensitivity)
	}, admission.FromConfig(deps.Cfg))

	var fetcher forward.Fetcher
	if c := onebot.New(onebot.FromConfig(deps.Cfg)); c != nil {
		fetcher = c
	} else {
		log.Info().Msg("onebot url not set; forward bundles will not be expanded")
	}
	forwards := forward.New(fetcher, forward.Options{OnNested: service.ObserveNested})

	offOpt := offense.FromConfig(deps.Cfg)
	var offStore offense.Store = offense.NewMemStore()
	if deps.RDS != nil {
		offStore = offense.NewRedisStore(deps.RDS, offOpt.Window)
	}

	p := Ports{
		Classifier: cls,
		Queue:      queue,
		Vision:     llm.NewVision(llm.VisionFromConfig(deps.Cfg)),
		Forwards:   forwards,
		Offenses:   offense.New(offStore, offOpt),
		Keywords:   cloudrules.New(cloudrules.FromConfig(deps.Cfg)),
		Links:      linkscan.New(linkscan.FromConfig(deps.Cfg.Prefix("ADWARDEN_LINKS_"))),
	}

	d := service.Deps{
		Classifier: p.Classifier,
		Queue:      p.Queue,
		Vision:     p.Vision,
		Forwards:   p.Forwards,
		Offenses:   p.Offenses,
		Keywords:   p.Keywords,
		Links:      p.Links,
		Stats:      stats,
		Verdicts:   verdicts,
		Log:        log,
	}
	p.Inspector = service.New(opt, d)

	return &Module{opt: opt, ports: p}
}

// Start launches the cloud keyword refresher and the offense pruner
func (m *Module) Start(ctx context.Context) {
	m.ports.Keywords.Start(ctx)
	m.ports.Offenses.Start(ctx)
}

// Stop halts the background loops
func (m *Module) Stop() {
	m.ports.Keywords.Stop()
	m.ports.Offenses.Stop()
}

// Options returns the pipeline settings read at construction
func (m *Module) Options() service.Options { return m.opt }

func (m *Module) Name() string { return "moderation" }

func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op; the API modules serve this module's ports
func (m *Module) MountRoutes(httpkit.Router) {}
