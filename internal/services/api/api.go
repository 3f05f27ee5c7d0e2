// Package api provides the HTTP API for the application
package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adwarden/internal/platform/config"
	"adwarden/internal/platform/logger"
	phttp "adwarden/internal/platform/net/http"
	"adwarden/internal/platform/store"

	"adwarden/internal/modkit"
	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/modkit/module"
	"adwarden/internal/modkit/swaggerkit"

	metamod "adwarden/internal/services/api/meta/module"
	modapi "adwarden/internal/services/api/moderation/module"
	statsapi "adwarden/internal/services/api/stats/module"
	verdictapi "adwarden/internal/services/api/verdicts/module"

	// engine modules (own the ports the API modules consume)
	moderation "adwarden/internal/services/moderation/module"
	msgstats "adwarden/internal/services/msgstats/module"
	verdicts "adwarden/internal/services/verdicts/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	// AdminToken guards mutating routes; empty leaves them open
	AdminToken string
}

// Runtime holds the engine modules whose lifecycle the caller owns
type Runtime struct {
	Stats      *msgstats.Module
	Verdicts   *verdicts.Module
	Moderation *moderation.Module
}

// Start creates missing tables and launches background loops
func (rt *Runtime) Start(ctx context.Context) error {
	if rt.Stats != nil {
		if err := rt.Stats.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	if err := rt.Verdicts.EnsureSchema(ctx); err != nil {
		return err
	}
	rt.Moderation.Start(ctx)
	return nil
}

// Stop halts background loops
func (rt *Runtime) Stop() { rt.Moderation.Stop() }

// Mount mounts the API service onto the given router. The returned Runtime
// must be started before serving
func Mount(r phttp.Router, opt Options) *Runtime {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
		RDS: opt.Store.RDS,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	admin := httpkit.AdminToken(opt.AdminToken)
	if admin == nil {
		deps.Log.Warn().Msg("admin token not set; reset and safe list routes are open")
	}

	// engine modules first; their ports feed the API modules
	rt := &Runtime{Verdicts: verdicts.New(deps)}
	vports := module.MustPortsOf[verdicts.Ports](rt.Verdicts)

	mods := []module.Module{metamod.New(deps), rt.Verdicts}

	var sports msgstats.Ports
	if deps.PG != nil {
		rt.Stats = msgstats.New(deps)
		sports = module.MustPortsOf[msgstats.Ports](rt.Stats)
		mods = append(mods, rt.Stats,
			statsapi.New(deps, modkit.WithPorts(statsapi.Ports{Stats: sports.Query, Admin: admin})),
			statsapi.NewSafeList(deps, modkit.WithPorts(statsapi.Ports{SafeList: sports.SafeList, Admin: admin})),
		)
	} else {
		deps.Log.Warn().Msg("postgres disabled; message stats and safe list are off")
	}

	rt.Moderation = moderation.New(deps, sports.Recorder, vports.Writer)
	mp := module.MustPortsOf[moderation.Ports](rt.Moderation)

	mods = append(mods,
		rt.Moderation,
		modapi.New(deps, modkit.WithPorts(modapi.Ports{
			Inspector:   mp.Inspector,
			Classifier:  mp.Classifier,
			Queue:       mp.Queue,
			Links:       mp.Links,
			Offenses:    mp.Offenses,
			Keywords:    mp.Keywords,
			Sensitivity: rt.Moderation.Options().Sensitivity,
		})),
		verdictapi.New(deps, modkit.WithPorts(verdictapi.Ports{Query: vports.Query})),
	)

	// prometheus scrape endpoint sits outside the versioned API
	r.Handle("/metrics", promhttp.Handler())

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return rt
}
