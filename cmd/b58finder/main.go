// b58finder recovers the missing characters of a base-58 string: WIF
// private keys, P2PKH/P2SH addresses, BIP-38 keys, extended keys or any
// Base58Check string.
//
// Mark each unknown character with a placeholder and run:
//
//	b58finder --type compressed --input 'KwdMAjGmerYanjeui5SHS7J*mpZvVipYvB2LJGU1ZxJwYvP98617'
//
// Without --input the finder asks for everything interactively.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/Amr-9/b58finder/internal/config"
	"github.com/Amr-9/b58finder/internal/lookup"
	"github.com/Amr-9/b58finder/internal/ui"
	"github.com/Amr-9/b58finder/pkg/format"
	"github.com/Amr-9/b58finder/pkg/recovery"
	"github.com/Amr-9/b58finder/pkg/search"
)

const version = "1.0"

// exitError carries a process exit code.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

func main() {
	if err := run(os.Args[1:], os.Stdin); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	input       string
	placeholder string
	typeName    string
	workers     int
	configPath  string
	addresses   []string
	addressFile string
	logLevel    string
	noColor     bool

	placeholderSet bool
}

func run(args []string, stdin io.Reader) error {
	var opts options
	flagSet := pflag.NewFlagSet("b58finder", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.input, "input", "i", "", "damaged string, unknown characters replaced by the placeholder")
	flagSet.StringVarP(&opts.placeholder, "placeholder", "p", "", "missing-character symbol (default from config, *)")
	flagSet.StringVarP(&opts.typeName, "type", "t", "", "encoding type: wif, compressed, p2pkh, p2sh, bip38, extended, base58check")
	flagSet.IntVarP(&opts.workers, "workers", "w", 0, "search goroutines (default: one per CPU)")
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringSliceVar(&opts.addresses, "address", nil, "address a recovered private key must control (repeatable)")
	flagSet.StringVar(&opts.addressFile, "address-file", "", "file of addresses a recovered private key must control")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flagSet.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(flagSet, &opts)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	if opts.noColor {
		color.NoColor = true
	}
	if err := raisePriority(); err != nil {
		logger.Debug("could not raise process priority", "err", err)
	}

	engine := search.New(append(cfg.EngineOptions(), search.WithLogger(logger))...)
	known, err := knownAddresses(cfg, opts.addresses)
	if err != nil {
		return err
	}

	interactive := opts.input == ""
	prompter := ui.NewPrompter(stdin)
	if interactive {
		ui.ClearScreen()
		ui.PrintWelcomeBanner(version)
	}

	for {
		job, err := ask(prompter, cfg, &opts)
		if err != nil {
			return err
		}

		var sessionOpts []recovery.Option
		sessionOpts = append(sessionOpts, recovery.WithLogger(logger))
		if known != nil {
			sessionOpts = append(sessionOpts, recovery.WithFilter(lookup.Matcher(known, job.Type)))
		}
		session := recovery.NewSession(engine, sessionOpts...)

		code := find(session, job, engine.Workers())
		if !interactive {
			if code != 0 {
				return exitError{code: code}
			}
			return nil
		}
		if !prompter.AskToContinue() {
			return nil
		}
		opts.input = ""
		fmt.Fprintln(ui.Out)
	}
}

// loadConfig reads the config file and applies the flags over it.
func loadConfig(flagSet *pflag.FlagSet, opts *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flagSet.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flagSet.Changed("placeholder") {
		cfg.Placeholder = opts.placeholder
		opts.placeholderSet = true
	}
	if flagSet.Changed("address-file") {
		cfg.Lookup.AddressFile = opts.addressFile
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// knownAddresses builds the address filter, or returns nil when no address
// was given.
func knownAddresses(cfg *config.Config, addresses []string) (*lookup.AddressSet, error) {
	var set *lookup.AddressSet
	if cfg.Lookup.AddressFile != "" {
		var err error
		set, err = lookup.LoadFile(cfg.Lookup.AddressFile, cfg.Lookup.FalsePositiveRate)
		if err != nil {
			return nil, err
		}
	}
	if len(addresses) > 0 {
		if set == nil {
			set = lookup.NewAddressSet(len(addresses), cfg.Lookup.FalsePositiveRate)
		}
		for _, a := range addresses {
			set.Add(a)
		}
	}
	return set, nil
}

// ask fills the job from the flags, prompting for whatever is missing.
func ask(p *ui.Prompter, cfg *config.Config, opts *options) (search.Job, error) {
	job := search.Job{Input: opts.input, Placeholder: cfg.PlaceholderRune()}

	var err error
	if opts.typeName != "" {
		if job.Type, err = format.ParseEncodingType(opts.typeName); err != nil {
			return job, err
		}
	} else if job.Type, err = p.SelectEncodingType(); err != nil {
		return job, err
	}

	if job.Input == "" {
		if !opts.placeholderSet {
			if job.Placeholder, err = p.AskPlaceholder(job.Placeholder); err != nil {
				return job, err
			}
		}
		if job.Input, err = p.AskInput(job.Placeholder, job.Type); err != nil {
			return job, err
		}
	}
	return job, nil
}

// find runs one search with a progress bar and returns the exit code.
// Ctrl+C cancels the search.
func find(session *recovery.Session, job search.Job, workers int) int {
	ui.PrintSearchInfo(job.Input, job.Placeholder, job.Type, workers)

	start := time.Now()
	if err := session.Start(job.Input, job.Placeholder, job.Type); err != nil {
		if msg := format.DescribeProblem(job.Input, job.Type); msg != "" {
			ui.PrintError("%s", msg)
		} else {
			ui.PrintError("%v", err)
		}
		return 2
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	bar := ui.NewProgress()
	updates := session.Updates()
	for updates != nil {
		select {
		case p, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			bar.Update(p)
		case <-sigChan:
			session.Cancel()
		}
	}
	session.Wait()
	bar.Finish()

	r := session.Result()
	ui.PrintResult(r, job.Type, time.Since(start))
	switch r.Status {
	case recovery.Success:
		return 0
	case recovery.Cancelled:
		return 130
	default:
		return 1
	}
}
