package runner

import (
	"os"
	"strings"
	"time"

	"github.com/homebox/lanmap/pkg/version"
	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"
)

var au *aurora.Aurora

var (
	DefaultDataFile = envutil.GetEnvOrDefault("LANMAP_DATA_FILE", "lanmap.json")
	DefaultRange    = envutil.GetEnvOrDefault("LANMAP_RANGE", "192.168.178.0/24")
	DefaultGateways = envutil.GetEnvOrDefault("LANMAP_GATEWAYS", "192.168.178.1,192.168.0.1")
)

// Options contains the configuration options for a lanmap run.
type Options struct {
	ConfigFile string
	DataFile   string
	Key        string
	Range      string

	Timeout      time.Duration
	RetryTimeout time.Duration

	Gateways         goflags.StringSlice
	GatewayTimeout   time.Duration
	SkipGatewayCheck bool

	Save       string
	Delete     string
	Backup     bool
	BackupFile string
	List       bool

	Verbose bool
	Silent  bool
	NoColor bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`lanmap discovers devices on the local network segment and reconciles them against a persisted list of favourite devices`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVar(&options.ConfigFile, "config", "", "cli flag configuration file"),
		flagSet.StringVarP(&options.DataFile, "file", "f", DefaultDataFile, "data file holding the persisted document"),
		flagSet.StringVarP(&options.Key, "key", "k", "fav_devices", "document key the favourites list is stored under"),
		flagSet.StringVarP(&options.Range, "range", "r", DefaultRange, "address range to scan (CIDR, single IP, or 'auto' for the first local /24)"),
	)

	flagSet.CreateGroup("probe", "Probe",
		flagSet.DurationVarP(&options.Timeout, "timeout", "t", 2*time.Second, "timeout for the full-range scan"),
		flagSet.DurationVarP(&options.RetryTimeout, "retry-timeout", "rt", 2*time.Second, "timeout for the targeted retry probe of a missed favourite"),
	)

	flagSet.CreateGroup("gateway", "Gateway",
		flagSet.StringSliceVarP(&options.Gateways, "gateway", "g", nil, "ordered gateway candidates (comma separated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.DurationVarP(&options.GatewayTimeout, "gateway-timeout", "gt", 5*time.Second, "timeout per gateway candidate probe"),
		flagSet.BoolVarP(&options.SkipGatewayCheck, "skip-gateway-check", "sg", false, "run the pass without the gateway reachability precondition"),
	)

	flagSet.CreateGroup("favourites", "Favourites",
		flagSet.StringVarP(&options.Save, "save", "s", "", "save a favourite as name:ip[:mac] and exit"),
		flagSet.StringVarP(&options.Delete, "delete", "d", "", "delete all favourites with the given name and exit"),
		flagSet.BoolVarP(&options.Backup, "backup", "b", false, "back up the data file and exit"),
		flagSet.StringVarP(&options.BackupFile, "backup-file", "bf", "", "backup destination (default: timestamped sibling of the data file)"),
		flagSet.BoolVarP(&options.List, "list", "l", false, "list the persisted favourites and exit"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	// configure aurora for logging
	au = aurora.New(aurora.WithColors(true))

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.Version)
		os.Exit(0)
	}

	if options.ConfigFile != "" {
		if err := options.loadConfigFrom(options.ConfigFile); err != nil {
			gologger.Warning().Msgf("Could not load config file %s: %s\n", options.ConfigFile, err)
		}
	}

	if len(options.Gateways) == 0 {
		for _, candidate := range strings.Split(DefaultGateways, ",") {
			if candidate = strings.TrimSpace(candidate); candidate != "" {
				options.Gateways = append(options.Gateways, candidate)
			}
		}
	}

	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func (options *Options) loadConfigFrom(location string) error {
	return fileutil.Unmarshal(fileutil.YAML, []byte(location), options)
}
