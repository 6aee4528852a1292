package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/homebox/lanmap/pkg/favourites"
	"github.com/homebox/lanmap/pkg/gateway"
	"github.com/homebox/lanmap/pkg/netx"
	"github.com/homebox/lanmap/pkg/probe"
	"github.com/homebox/lanmap/pkg/store"
	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
	"github.com/shirou/gopsutil/v3/host"
)

// ErrWrongGateway is returned when the primary gateway does not answer but
// a backup candidate does.
var ErrWrongGateway = errors.New("primary gateway is not reachable")

// Runner contains the internal logic of the program
type Runner struct {
	options *Options
	prober  probe.Prober
	store   *store.JSONFile
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	return &Runner{
		options: options,
		prober:  probe.NewARP(probe.Options{}),
		store:   store.NewJSONFile(options.DataFile),
	}, nil
}

// Run executes the requested operation: a management operation when one of
// the favourites flags is set, otherwise the gateway precondition followed
// by one reconciliation pass.
func (r *Runner) Run(ctx context.Context) error {
	service := favourites.NewService(r.store, r.prober, r.options.Key, r.options.RetryTimeout)

	switch {
	case r.options.Save != "":
		return r.saveFavourite(ctx, service)
	case r.options.Delete != "":
		return r.deleteFavourite(service)
	case r.options.Backup:
		return r.backup(service)
	case r.options.List:
		return r.listFavourites(service)
	}

	if !r.options.SkipGatewayCheck {
		if err := r.checkGateways(ctx); err != nil {
			return err
		}
	}

	r.logHostDiagnostics()

	scanRange := r.options.Range
	if scanRange == "auto" {
		networks, err := netx.LocalNetworks24()
		if err != nil {
			return errorutil.NewWithErr(err).Msgf("could not autodetect a local network range")
		}
		if len(networks) == 0 {
			return errorutil.New("no private IPv4 network found to scan")
		}
		scanRange = networks[0].String()
		gologger.Info().Msgf("autodetected range %s", scanRange)
	}

	reconciler := favourites.NewReconciler(r.prober, r.store, favourites.ReconcilerOptions{
		Key:          r.options.Key,
		Range:        scanRange,
		Timeout:      r.options.Timeout,
		RetryTimeout: r.options.RetryTimeout,
	})

	gologger.Info().Msgf("Scanning %s", scanRange)
	report, err := reconciler.Run(ctx)
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("reconciliation pass failed")
	}

	r.printReport(report)
	return nil
}

// checkGateways validates network reachability before a pass is attempted.
func (r *Runner) checkGateways(ctx context.Context) error {
	if len(r.options.Gateways) == 0 {
		return nil
	}

	primary := r.options.Gateways[0]
	if gateway.Reachable(ctx, r.prober, primary, r.options.GatewayTimeout) {
		gologger.Verbose().Msgf("gateway %s is reachable", primary)
		return nil
	}

	reachable, err := gateway.FindReachable(ctx, r.prober, r.options.Gateways, r.options.GatewayTimeout)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: backup gateway %s answered instead", ErrWrongGateway, reachable)
}

// logHostDiagnostics prints a verbose line about the host the pass runs on.
func (r *Runner) logHostDiagnostics() {
	info, err := host.Info()
	if err != nil {
		return
	}
	gologger.Verbose().Msgf("running on %s (%s), up %s",
		info.Hostname, info.Platform, (time.Duration(info.Uptime) * time.Second).String())
}

// printReport renders the structured reconcile result.
func (r *Runner) printReport(report *favourites.Report) {
	for _, event := range report.Events {
		switch {
		case event.Online && event.Recovered:
			gologger.Verbose().Msgf("%s answered the targeted retry at %s", event.Name, event.IP)
		case event.State == favourites.StateIPMoved:
			gologger.Verbose().Msgf("%s moved: MAC %s now has IP %s", event.Name, event.MAC, event.NewIP)
		case event.State == favourites.StateConflict:
			gologger.Warning().Msgf("%s conflict: IP %s has MAC %s while MAC %s has IP %s, trusting the MAC",
				event.Name, event.IP, event.NewMAC, event.MAC, event.NewIP)
		case event.State == favourites.StateMACMoved:
			gologger.Warning().Msgf("%s not updated: IP %s is occupied by MAC %s", event.Name, event.IP, event.NewMAC)
		case event.State == favourites.StateNone:
			gologger.Verbose().Msgf("%s offline (last seen %s)", event.Name, formatLastSeen(event.LastSeen))
		}
	}

	gologger.Info().Msgf("pass %s: %d favourites online", report.PassID, len(report.Online))
	for _, favourite := range report.Online {
		gologger.Silent().Msgf("%s (last: %s) is at (IP: %s, MAC: %s)",
			au.BrightGreen(favourite.Name), formatLastSeen(favourite.LastSeen), favourite.IP, favourite.MAC)
	}
}

// saveFavourite parses the -save argument (name:ip[:mac]) and stores it.
func (r *Runner) saveFavourite(ctx context.Context, service *favourites.Service) error {
	parts := strings.SplitN(r.options.Save, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return errorutil.New("invalid -save argument %q, want name:ip[:mac]", r.options.Save)
	}
	name, ip := parts[0], parts[1]
	mac := ""
	if len(parts) == 3 {
		mac = parts[2]
	}

	if err := service.Save(ctx, name, ip, mac, 0, nil); err != nil {
		return err
	}
	gologger.Info().Msgf("saved favourite %s (%s)", name, ip)
	return nil
}

func (r *Runner) deleteFavourite(service *favourites.Service) error {
	removed, err := service.Delete(r.options.Delete)
	if err != nil {
		return err
	}
	if !removed {
		gologger.Info().Msgf("no favourites named %s, nothing deleted", r.options.Delete)
		return nil
	}
	gologger.Info().Msgf("deleted all favourites named %s", r.options.Delete)
	return nil
}

func (r *Runner) backup(service *favourites.Service) error {
	destination, err := service.Backup(r.options.BackupFile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errorutil.New("data file %s not found, nothing to back up", r.options.DataFile)
		}
		return err
	}
	gologger.Info().Msgf("backup of %s saved to %s", r.options.DataFile, destination)
	return nil
}

func (r *Runner) listFavourites(service *favourites.Service) error {
	list, err := service.Load()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		gologger.Info().Msgf("no favourites in %s under key %s", r.options.DataFile, r.options.Key)
		return nil
	}
	for _, favourite := range list {
		gologger.Silent().Msgf("%s (last: %s) is at (IP: %s, MAC: %s)",
			au.Cyan(favourite.Name), formatLastSeen(favourite.LastSeen), favourite.IP, favourite.MAC)
	}
	return nil
}

func formatLastSeen(lastSeen int64) string {
	if lastSeen == 0 {
		return "never"
	}
	return time.Unix(lastSeen, 0).Format("2006-01-02 15:04:05")
}
