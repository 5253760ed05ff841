// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Semior001/newsdigest/app/bot"
	"github.com/Semior001/newsdigest/app/cache"
	"github.com/Semior001/newsdigest/app/news"
	"github.com/Semior001/newsdigest/app/rest"
	"github.com/Semior001/newsdigest/app/revisor"
	"github.com/Semior001/newsdigest/app/store"
	"github.com/Semior001/newsdigest/pkg/botx"
	"github.com/Semior001/newsdigest/pkg/botx/botapi"
	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/Semior001/newsdigest/pkg/throttle"
	"github.com/go-pkgz/requester"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Run is a command to run the REST API and the telegram bot.
type Run struct {
	News struct {
		BaseURL       string        `long:"base-url" env:"BASE_URL" default:"https://newsapi.org/v2" description:"news provider base url"`
		APIKey        string        `long:"api-key" env:"API_KEY" required:"true" description:"news provider api key"`
		Taxonomy      string        `long:"taxonomy" env:"TAXONOMY" description:"path to yaml file with category keywords"`
		Interval      time.Duration `long:"interval" env:"INTERVAL" default:"100ms" description:"min interval between provider calls"`
		Strict        bool          `long:"strict" env:"STRICT" description:"don't fill category pages with articles of other categories"`
		GeneralSecond bool          `long:"general-second-pass" env:"GENERAL_SECOND_PASS" description:"admit articles without url to short general pages"`
	} `group:"news" namespace:"news" env-namespace:"NEWS"`

	Simplifier struct {
		Provider  string        `long:"provider" env:"PROVIDER" choice:"openai" choice:"claude" default:"openai" description:"llm provider"`
		BaseURL   string        `long:"base-url" env:"BASE_URL" description:"llm api base url"`
		Token     string        `long:"token" env:"TOKEN" description:"llm api token"`
		Model     string        `long:"model" env:"MODEL" description:"llm model"`
		MaxTokens int           `long:"max-tokens" env:"MAX_TOKENS" default:"2000" description:"max tokens in completion"`
		Interval  time.Duration `long:"interval" env:"INTERVAL" default:"200ms" description:"min interval between llm calls"`
		Timeout   time.Duration `long:"timeout" env:"TIMEOUT" default:"2m" description:"timeout for llm calls"`
		CacheSize int           `long:"cache-size" env:"CACHE_SIZE" default:"1000" description:"max simplified articles in cache"`
	} `group:"simplifier" namespace:"simplifier" env-namespace:"SIMPLIFIER"`

	Cache struct {
		TTL   time.Duration `long:"ttl" env:"TTL" default:"30m" description:"ttl of cached pages"`
		Size  int           `long:"size" env:"SIZE" default:"1000" description:"max pages in memory cache"`
		Redis struct {
			Addr     string `long:"addr" env:"ADDR" description:"redis address, memory cache is used when empty"`
			Password string `long:"password" env:"PASSWORD" description:"redis password"`
			DB       int    `long:"db" env:"DB" default:"0" description:"redis database"`
		} `group:"redis" namespace:"redis" env-namespace:"REDIS"`
	} `group:"cache" namespace:"cache" env-namespace:"CACHE"`

	REST struct {
		Addr          string `long:"addr" env:"ADDR" default:":8080" description:"address to listen on"`
		JWTSecret     string `long:"jwt-secret" env:"JWT_SECRET" description:"secret to verify user tokens"`
		AllowedOrigin string `long:"allowed-origin" env:"ALLOWED_ORIGIN" description:"origin allowed by cors"`
	} `group:"rest" namespace:"rest" env-namespace:"REST"`

	Bot struct {
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"6m" description:"timeout for requests"`
		Workers  int           `long:"workers" env:"WORKERS" default:"10" description:"number of update workers"`
		Cooldown time.Duration `long:"cooldown" env:"COOLDOWN" default:"10s" description:"min interval between article requests of a chat"`

		Telegram struct {
			Token string `long:"token" env:"TOKEN" description:"telegram token, bot is disabled when empty"`
		} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

		AdminIDs []string `long:"admin-ids" env:"ADMIN_IDS" env-delim:"," description:"admin IDs"`
	} `group:"bot" namespace:"bot" env-namespace:"BOT"`

	StorePath string `long:"store-path" env:"STORE_PATH" default:"." description:"parent dir for bolt files"`

	Debug bool
}

// Execute runs the command.
func (r Run) Execute(_ []string) error {
	lg := slog.Default()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	aggr, err := r.makeAggregator(lg)
	if err != nil {
		return err
	}

	pages, closeCache := r.makePages(ctx, lg, aggr)
	defer closeCache()

	simplifier, fetcher := r.makeSimplifier(lg)

	s, err := store.NewBolt(r.StorePath)
	if err != nil {
		return fmt.Errorf("make store: %w", err)
	}

	defer func() {
		if err := s.Close(); err != nil {
			lg.Error("close bolt store", slog.Any("err", err))
		}
	}()

	srv := &rest.Server{
		Addr:          r.REST.Addr,
		Logger:        lg.With(slog.String("prefix", "rest")),
		Pages:         pages,
		Simplifier:    simplifier,
		Store:         s,
		AllowedOrigin: r.REST.AllowedOrigin,
	}
	if r.REST.JWTSecret != "" {
		srv.Verifier = rest.JWTVerifier{Secret: []byte(r.REST.JWTSecret)}
	}

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case sig := <-sig:
			slog.Warn("caught signal, stopping", slog.String("signal", sig.String()))
			stop()
			return ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	ewg.Go(func() error {
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("run rest server: %w", err)
		}
		return nil
	})

	if r.Bot.Telegram.Token == "" {
		lg.Info("telegram token is not set, bot is disabled")
	} else {
		api, err := botapi.NewTelegram(lg.With(slog.String("prefix", "telegram")), r.Bot.Telegram.Token, 100)
		if err != nil {
			stop()
			_ = ewg.Wait()
			return fmt.Errorf("make telegram controller: %w", err)
		}

		ctrl := &bot.Ctrl{
			Logger:         lg.With(slog.String("prefix", "bot")),
			Store:          s,
			Pages:          pages,
			Simplifier:     simplifier,
			Fetcher:        fetcher,
			API:            api,
			AdminIDs:       r.Bot.AdminIDs,
			HandlerTimeout: r.Bot.Timeout,
			Cooldown:       r.Bot.Cooldown,
		}

		b := botx.NewBot(
			ctrl.Routes().Handle,
			api,
			botx.WithLogger(lg.With(slog.String("prefix", "botx"))),
			botx.WithWorkers(r.Bot.Workers),
			botx.WithReplies(),
		)

		if err := ctrl.NotifyAdmins(ctx, "bot started"); err != nil {
			lg.Warn("failed to notify admins about started bot", slog.Any("err", err))
		}

		ewg.Go(func() error {
			lg.Info("starting telegram api")
			api.Run(ctx)
			lg.Warn("telegram api stopped listening for updates")
			return nil
		})
		ewg.Go(func() error {
			lg.Info("starting bot")
			b.Run(ctx)
			lg.Warn("bot stopped")

			// ctx is dead by now
			if err := ctrl.NotifyAdmins(context.Background(), "bot stopped"); err != nil {
				lg.Warn("failed to notify admins about stopped bot", slog.Any("err", err))
			}
			return nil
		})
	}

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (r Run) makeAggregator(lg *slog.Logger) (*news.Aggregator, error) {
	tx := news.DefaultTaxonomy()
	if r.News.Taxonomy != "" {
		var err error
		if tx, err = news.LoadTaxonomy(r.News.Taxonomy); err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
	}

	cl := r.requester(lg.With(slog.String("prefix", "newsapi_client")), 10*time.Second)
	provider := news.NewNewsAPI(lg.With(slog.String("prefix", "newsapi")), cl, r.News.BaseURL, r.News.APIKey)

	policy := news.DefaultPolicy()
	policy.ExtendToDouble = !r.News.Strict
	policy.GeneralSecondPass = r.News.GeneralSecond

	return news.NewAggregator(
		lg.With(slog.String("prefix", "aggregator")),
		provider,
		tx,
		throttle.New(r.News.Interval),
		policy,
	), nil
}

// makePages wraps the aggregator into a cache, redis if configured and
// reachable, in-memory otherwise.
func (r Run) makePages(ctx context.Context, lg *slog.Logger, aggr *news.Aggregator) (*cache.Service, func()) {
	lg = lg.With(slog.String("prefix", "cache"))

	var st cache.Store = cache.NewMemory(r.Cache.Size)
	closeFn := func() {}

	if r.Cache.Redis.Addr != "" {
		rds, err := cache.NewRedis(ctx, r.Cache.Redis.Addr, r.Cache.Redis.Password, r.Cache.Redis.DB)
		if err != nil {
			lg.Warn("redis is unavailable, falling back to memory cache", slog.Any("err", err))
		} else {
			st = rds
			closeFn = func() {
				if err := rds.Close(); err != nil {
					lg.Warn("close redis", slog.Any("err", err))
				}
			}
		}
	}

	return cache.NewService(lg, st, aggr, r.Cache.TTL), closeFn
}

func (r Run) makeSimplifier(lg *slog.Logger) (*revisor.Simplifier, *revisor.Fetcher) {
	params := revisor.CompletionParams{
		Model:     r.Simplifier.Model,
		MaxTokens: r.Simplifier.MaxTokens,
	}

	var completer revisor.Completer
	switch r.Simplifier.Provider {
	case "claude":
		completer = revisor.NewClaude(
			lg.With(slog.String("prefix", "claude")),
			r.requester(lg.With(slog.String("prefix", "claude_client")), r.Simplifier.Timeout),
			r.Simplifier.BaseURL,
			r.Simplifier.Token,
			params,
		)
	default:
		completer = revisor.NewOpenAI(
			lg.With(slog.String("prefix", "openai")),
			&http.Client{Timeout: r.Simplifier.Timeout},
			r.Simplifier.BaseURL,
			r.Simplifier.Token,
			params,
		)
	}

	fetcher := revisor.NewFetcher(
		lg.With(slog.String("prefix", "fetcher")),
		r.requester(lg.With(slog.String("prefix", "fetcher_client")), 10*time.Second),
		revisor.NewExtractor(r.Debug),
	)

	simplifier := revisor.NewSimplifier(
		lg.With(slog.String("prefix", "simplifier")),
		completer,
		fetcher,
		throttle.New(r.Simplifier.Interval),
		r.Simplifier.CacheSize,
	)

	return simplifier, fetcher
}

// requester makes an http client that logs requests at debug level,
// with credentials redacted.
func (r Run) requester(lg *slog.Logger, timeout time.Duration) *requester.Requester {
	return requester.New(
		http.Client{Timeout: timeout},
		logx.LoggingRoundTripper(lg, logx.RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"Authorization", "X-Api-Key"},
			SecretParams:  []string{"apiKey"},
		}),
	)
}
