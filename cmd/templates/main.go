package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sk4ndal-commits/UGCMarketPlace/internal/config"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/db"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/metrics"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Operator tool for the application template catalog.
//
//	templates import -file templates/catalog.yaml
//	templates list
//	templates delete <template_id>

const usage = "usage: templates import -file <catalog.yaml> | list | delete <template_id>"

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	opts := db.DefaultPoolOptions()
	opts.MaxConns, opts.MinConns = 2, 0
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, opts, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// running APIs drop their cached catalog when told; without redis they
	// catch up after TEMPLATE_CACHE_TTL
	var pub events.Publisher
	if rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log); err != nil {
		log.Warn("redis unavailable, API caches will expire on their own", zap.Error(err))
	} else {
		defer rdb.Close()
		pub = events.NewRedisPublisher(rdb, log)
	}

	svc := services.NewTemplateService(repositories.NewTemplateRepo(pool), cfg.TemplateCacheTTL, metrics.New(), log)
	if err := run(ctx, svc, pub, os.Args[1:], os.Stdout); err != nil {
		log.Fatal("templates command failed", zap.Error(err))
	}
}

type catalogService interface {
	Import(ctx context.Context, list []models.Template) (int, error)
	ListAll(ctx context.Context) ([]models.Template, error)
	Delete(ctx context.Context, templateID string) error
}

func run(ctx context.Context, svc catalogService, pub events.Publisher, args []string, out io.Writer) error {
	switch args[0] {
	case "import":
		fs := flag.NewFlagSet("import", flag.ContinueOnError)
		file := fs.String("file", "templates/catalog.yaml", "YAML catalog to import")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		list, err := loadCatalog(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", *file, err)
		}
		n, err := svc.Import(ctx, list)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %d templates\n", n)
		ids := make([]string, 0, len(list))
		for _, t := range list {
			ids = append(ids, t.TemplateID)
		}
		announce(ctx, pub, "import", ids)

	case "list":
		list, err := svc.ListAll(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TEMPLATE_ID\tNAME\tAVAILABLE\tREQUIRED")
		for _, t := range list {
			fmt.Fprintf(w, "%s\t%s\t%t\t%v\n", t.TemplateID, t.Name, t.IsAvailable, t.RequiredParameters)
		}
		return w.Flush()

	case "delete":
		if len(args) != 2 {
			return errors.New(usage)
		}
		if err := svc.Delete(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", args[1])
		announce(ctx, pub, "delete", args[1:])

	default:
		return errors.New(usage)
	}
	return nil
}

// announce is best effort; the publisher logs its own failures.
func announce(ctx context.Context, pub events.Publisher, action string, ids []string) {
	if pub == nil {
		return
	}
	_ = pub.Publish(ctx, events.ChannelTemplates, events.TemplatesChanged(action, ids, time.Now()))
}

type catalogFile struct {
	Templates []models.Template `yaml:"templates"`
}

func loadCatalog(r io.Reader) ([]models.Template, error) {
	var c catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return c.Templates, nil
}
