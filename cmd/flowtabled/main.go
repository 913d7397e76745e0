// Command flowtabled hosts a flow.Table behind a cooperative scheduler
// loop, the reference harness exercising the core end-to-end. It is
// scaffolding, not a source of core semantics: every invariant the
// core upholds is upheld regardless of whether this binary is used.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ofcore/flowtable/internal/audit"
	"github.com/ofcore/flowtable/internal/flow"
	"github.com/ofcore/flowtable/internal/ofmodel"
	"github.com/ofcore/flowtable/internal/sched"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "flowtabled:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("flowtabled", pflag.ContinueOnError)

	configPath := flags.String("config", "", "path to a HUJSON config file")
	maxEntries := flags.Int("max-entries", 0, "override max_entries from the config file")
	auditDBPath := flags.String("audit-db", "", "override audit_db_path from the config file")
	statsPath := flags.String("stats-path", "", "override stats_path from the config file")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}

	if flags.Changed("max-entries") {
		cfg.MaxEntries = *maxEntries
	}

	if flags.Changed("audit-db") {
		cfg.AuditDBPath = *auditDBPath
	}

	if flags.Changed("stats-path") {
		cfg.StatsPath = *statsPath
	}

	var sink flow.EventSink

	if cfg.AuditDBPath != "" {
		auditSink, err := audit.Open(cfg.AuditDBPath)
		if err != nil {
			return err
		}
		defer auditSink.Close()

		sink = auditSink
	}

	table, err := flow.New(flow.Config{
		MaxEntries: cfg.MaxEntries,
		Duplicator: ofmodel.Duplicator{},
		Builder:    ofmodel.Builder{},
		EventSink:  sink,
	})
	if err != nil {
		return err
	}

	scheduler := sched.New(time.Duration(cfg.SchedulerSliceMS) * time.Millisecond)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	fmt.Printf("flowtabled: table ready, max_entries=%d\n", cfg.MaxEntries)

	for {
		select {
		case <-sigCh:
			return shutdown(table, cfg.StatsPath)
		case <-ticker.C:
			scheduler.Run()
		}
	}
}

func shutdown(table *flow.Table, statsPath string) error {
	snap := Diagnostics{
		GeneratedAt: time.Now(),
		Status:      table.Status(),
		MaxEntries:  table.MaxEntries(),
		FreeCount:   table.FreeCount(),
		IDIndex:     table.IDIndexStats(),
		Priority:    table.PriorityIndexStats(),
		Match:       table.MatchIndexStats(),
	}

	if err := writeDiagnostics(statsPath, snap); err != nil {
		return err
	}

	if err := table.Close(); err != nil {
		return err
	}

	fmt.Println("flowtabled: shut down cleanly")

	return nil
}
