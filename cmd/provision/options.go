package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
)

var validate = validator.New()

// Options holds the provisioning command line.
type Options struct {
	Workers      int    `validate:"gte=0,lte=100000"`
	SeedFile     string `validate:"omitempty,file"`
	Format       string `default:"json" validate:"oneof=json yaml"`
	Out          string
	EndpointBase string `default:"http://inference:8000" validate:"required,url"`
	LogLevel     string `default:"info" validate:"oneof=debug info warn error"`

	fs *pflag.FlagSet
}

// NewOptions returns Options with defaults applied.
func NewOptions() (*Options, error) {
	opts := &Options{}
	if err := defaults.Set(opts); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return opts, nil
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.fs = fs
	fs.IntVarP(&o.Workers, "workers", "n", o.Workers,
		"Number of workers to provision.")
	fs.StringVar(&o.SeedFile, "seed-file", o.SeedFile,
		"File with one entry per worker; non-blank lines are counted.")
	fs.StringVarP(&o.Format, "format", "f", o.Format,
		"Plan output format: json or yaml.")
	fs.StringVarP(&o.Out, "out", "o", o.Out,
		"Write the plan to this file instead of stdout.")
	fs.StringVar(&o.EndpointBase, "endpoint-base", o.EndpointBase,
		"Base URL of the inference service used in worker endpoints.")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel,
		"Log level: debug, info, warn or error.")
}

// Validate checks field rules and that exactly one worker-count source is set.
// An explicit --workers 0 is valid and yields an empty plan.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	workersSet := o.Workers > 0 || (o.fs != nil && o.fs.Changed("workers"))
	switch {
	case workersSet && o.SeedFile != "":
		return errors.New("--workers and --seed-file are mutually exclusive")
	case !workersSet && o.SeedFile == "":
		return errors.New("one of --workers or --seed-file is required")
	}
	return nil
}

// WorkerCount returns --workers or the number of non-blank lines in the seed
// file.
func (o *Options) WorkerCount() (int, error) {
	if o.SeedFile == "" {
		return o.Workers, nil
	}
	f, err := os.Open(o.SeedFile)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("seed file %s has no entries", o.SeedFile)
	}
	return n, nil
}

func fieldMessage(fe validator.FieldError) string {
	field := flagName(fe.Field())
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("--%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("--%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("--%s must be less than or equal to %s", field, fe.Param())
	case "file":
		return fmt.Sprintf("--%s must be an existing file", field)
	case "url":
		return fmt.Sprintf("--%s must be a valid URL", field)
	case "required":
		return fmt.Sprintf("--%s is required", field)
	default:
		return fmt.Sprintf("--%s failed validation: %s", field, fe.Tag())
	}
}

func flagName(field string) string {
	switch field {
	case "SeedFile":
		return "seed-file"
	case "EndpointBase":
		return "endpoint-base"
	case "LogLevel":
		return "log-level"
	default:
		return strings.ToLower(field)
	}
}
