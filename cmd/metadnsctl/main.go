package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/publicsuffix"

	"github.com/metadns/metadns/internal/dns/common/log"
	"github.com/metadns/metadns/internal/dns/common/utils"
	"github.com/metadns/metadns/internal/dns/config"
	"github.com/metadns/metadns/internal/dns/gateways/store"
	"github.com/metadns/metadns/internal/dns/services/writer"
)

const updateTimeout = 30 * time.Second

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadnsctl <domain> <subdomain> <type> <value>",
		Short: "Write a DNS record into the metadata store",
		Long: `metadnsctl merges one record update into the record set stored for a domain.

The subdomain may be "@" (or empty) for the apex and "*" for the wildcard.
A and CNAME values are comma separated; MX values are comma separated
"<priority> <exchange>" pairs.`,
		Example: `  metadnsctl example.com @ A 1.2.3.4,5.6.7.8
  metadnsctl example.com www CNAME example.com.
  metadnsctl example.com @ MX "10 mail.example.com."`,
		Args:          cobra.ExactArgs(4),
		SilenceErrors: true,
		RunE:          runUpdate,
	}
}

// runUpdate performs the record update. Update failures are logged but do
// not change the exit code; only argument errors exit non-zero.
func runUpdate(cmd *cobra.Command, args []string) error {
	apexDomain, subdomain, recordType, value := args[0], args[1], args[2], args[3]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	warnUnusualApex(logger, apexDomain)

	ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
	defer cancel()

	w := writer.New(store.NewStripeStore(cfg.StripeKey, logger), logger)
	if err := w.Update(ctx, apexDomain, subdomain, recordType, value); err != nil {
		logger.Error(map[string]any{
			"domain":    apexDomain,
			"subdomain": subdomain,
			"type":      recordType,
			"error":     err.Error(),
		}, "Record update failed")
		return nil
	}

	logger.Info(map[string]any{
		"domain":    apexDomain,
		"subdomain": subdomain,
		"type":      recordType,
	}, "Record update applied")
	return nil
}

// warnUnusualApex flags domains whose registrable apex per the public
// suffix list differs from the two-label split the server keys records by,
// e.g. example.co.uk. The update still proceeds; queries for such domains
// will be keyed under the last two labels.
func warnUnusualApex(logger log.Logger, name string) {
	canonical := utils.CanonicalDNSName(name)
	registrable, err := publicsuffix.EffectiveTLDPlusOne(canonical)
	if err != nil {
		return
	}
	naive, _ := utils.SplitName(canonical)
	if registrable != naive {
		logger.Warn(map[string]any{
			"domain":      name,
			"registrable": registrable,
			"store_key":   naive,
		}, "Domain's registrable apex differs from its store key")
	}
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	if err := root.Execute(); err != nil {
		// cobra has already printed the usage message for argument errors
		os.Exit(1)
	}
}
