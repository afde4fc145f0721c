// Command aclcli loads a rule file and an outbound/geo config, compiles
// them into a router.Router, and either answers one-shot routing queries
// or actually dials a destination through the matched outbound.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/p4gefau1t/acl-go/acl"
	"github.com/p4gefau1t/acl-go/geodat"
	"github.com/p4gefau1t/acl-go/log"
	"github.com/p4gefau1t/acl-go/log/slogadapter"
	"github.com/p4gefau1t/acl-go/metrics/prometheus"
	"github.com/p4gefau1t/acl-go/resolver"
	"github.com/p4gefau1t/acl-go/router"
	"golang.org/x/term"
)

func main() {
	rulesPath := flag.String("rules", "", "path to the ACL rule file (required)")
	configPath := flag.String("config", "", "path to the outbound/geo YAML config")
	query := flag.String("query", "", "host:port to route without dialing, e.g. example.com:443")
	dial := flag.String("dial", "", "host:port to route and actually dial")
	protocolFlag := flag.String("protocol", "tcp", "protocol for -query/-dial: tcp or udp")
	timeout := flag.Duration("timeout", 5*time.Second, "dial timeout for -dial")
	logFormat := flag.String("log-format", "text", "log output format: text, json, or colored")
	flag.Parse()

	format := slogadapter.ParseLogFormat(*logFormat)
	if *logFormat == "text" && term.IsTerminal(int(os.Stderr.Fd())) {
		format = slogadapter.ColoredFormat
	}
	log.RegisterLogger(slogadapter.NewSlogAdapterWithFormat(os.Stderr, format))

	if *rulesPath == "" {
		log.Error("missing required -rules flag")
		os.Exit(2)
	}
	if *query == "" && *dial == "" {
		log.Error("one of -query or -dial is required")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.ErrorWith("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ruleText, err := os.ReadFile(*rulesPath)
	if err != nil {
		log.ErrorWith("failed to read rule file", slog.String("path", *rulesPath), slog.Any("error", err))
		os.Exit(1)
	}
	rules, err := acl.ParseTextRules(string(ruleText))
	if err != nil {
		log.ErrorWith("failed to parse rule file", slog.String("path", *rulesPath), slog.Any("error", err))
		os.Exit(1)
	}

	table, err := buildTable(cfg.Outbounds)
	if err != nil {
		log.ErrorWith("failed to build outbound table", slog.Any("error", err))
		os.Exit(1)
	}
	names := make(map[string]string, len(table))
	for name := range table {
		names[name] = name
	}

	var loader acl.GeoLoader
	if cfg.GeoIPPath != "" || cfg.GeoSitePath != "" {
		loader = geodat.NewLoader(cfg.GeoIPPath, cfg.GeoSitePath)
	}

	ruleSet, err := acl.Compile(rules, names, cfg.CacheCapacity, loader)
	prometheus.RecordCompile(len(rules), err)
	if err != nil {
		log.ErrorWith("failed to compile rule set", slog.Any("error", err))
		os.Exit(1)
	}
	log.InfoWith("compiled rule set", slog.Int("rules", ruleSet.RuleCount()), slog.Int("outbounds", len(table)))

	ctx := context.Background()
	if cfg.Metrics.Enabled {
		if err := prometheus.RunMetricsServer(ctx, prometheus.Config{
			Enabled: cfg.Metrics.Enabled,
			Host:    cfg.Metrics.Host,
			Port:    cfg.Metrics.Port,
			Path:    cfg.Metrics.Path,
		}); err != nil {
			log.ErrorWith("failed to start metrics server", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var opts []router.Option
	if cfg.Fallback != "" {
		opts = append(opts, router.WithFallback(cfg.Fallback))
	}
	r := router.New(ruleSet, table, resolver.NewSystem(), opts...)

	protocol := acl.ProtocolTCP
	if *protocolFlag == "udp" {
		protocol = acl.ProtocolUDP
	}

	if *query != "" {
		runQuery(ctx, r, *query, protocol)
		return
	}
	runDial(ctx, r, *dial, *protocolFlag, *timeout)
}

func runQuery(ctx context.Context, r *router.Router, hostport string, protocol acl.Protocol) {
	host, port := splitHostPort(hostport)
	name, hijack, err := r.Route(ctx, host, protocol, port)
	if err != nil {
		log.ErrorWith("route failed", slog.String("host", hostport), slog.Any("error", err))
		os.Exit(1)
	}
	attrs := []slog.Attr{slog.String("host", hostport), slog.String("outbound", name)}
	if hijack.IsValid() {
		attrs = append(attrs, slog.String("hijack", hijack.String()))
	}
	log.InfoWith("matched", attrs...)
}

func runDial(ctx context.Context, r *router.Router, hostport, network string, timeout time.Duration) {
	host, port := splitHostPort(hostport)
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := r.DialConn(dialCtx, network, host, port)
	if err != nil {
		log.ErrorWith("dial failed", slog.String("host", hostport), slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()
	log.InfoWith("dialed", slog.String("host", hostport), slog.String("remote", conn.RemoteAddr().String()))
}

func splitHostPort(hostport string) (string, uint16) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		log.ErrorWith("invalid host:port", slog.String("value", hostport), slog.Any("error", err))
		os.Exit(2)
	}
	portNum, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		log.ErrorWith("invalid port", slog.String("value", portStr), slog.Any("error", err))
		os.Exit(2)
	}
	return host, uint16(portNum)
}
