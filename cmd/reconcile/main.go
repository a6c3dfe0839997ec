// Command reconcile сверяет каталог салона с YClients из командной строки.
//
//	reconcile report [-master ID]
//	reconcile sync -master ID
//	reconcile remove -master ID -services 1,2,3
//	reconcile import [-dry-run]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/m04kA/SMC-SalonBooking/internal/app"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("command required: report, sync, remove, import")
	}
	command := args[0]

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	configPath := fs.String("config", "config.toml", "path to config file")
	masterID := fs.Int64("master", 0, "master id")
	services := fs.String("services", "", "comma separated service ids (remove)")
	dryRun := fs.Bool("dry-run", false, "only print changes (import)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	svc := application.Reconciliation

	switch command {
	case "report":
		var id *int64
		if *masterID > 0 {
			id = ptr.Ptr(*masterID)
		}
		report, err := svc.FullReport(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(report)

	case "sync":
		if *masterID <= 0 {
			return errors.New("sync: -master is required")
		}
		result, err := svc.ApplySync(ctx, *masterID, nil)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "remove":
		if *masterID <= 0 {
			return errors.New("remove: -master is required")
		}
		ids, err := parseIDs(*services)
		if err != nil {
			return err
		}
		result, err := svc.RemoveExtraLinks(ctx, *masterID, ids)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "import":
		report, err := svc.ImportMasters(ctx, *dryRun)
		if err != nil {
			return err
		}
		return printJSON(report)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func parseIDs(raw string) ([]int64, error) {
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid service id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("remove: -services is required")
	}
	return ids, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
