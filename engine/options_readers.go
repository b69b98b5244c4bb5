package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/cainem/hill-descent-sub001/dimension"
)

// LoadYAMLOptions loads Options encoded as YAML.
func LoadYAMLOptions(r io.Reader) (*Options, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var opts Options
	if err = yaml.Unmarshal(content, &opts); err != nil {
		return nil, errors.Wrap(err, "failed to decode engine options from YAML")
	}

	if err = InitLogger(opts.LogLevel); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	if err = opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine options")
	}
	return &opts, nil
}

// LoadPlainOptions loads Options from a `key value` text format, one
// assignment per line, with `bounds` lines of the form
// `bound <lo> <hi> <q>` repeated once per dimension, in order.
func LoadPlainOptions(r io.Reader) (*Options, error) {
	o := &Options{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		name, rest := fields[0], fields[1:]
		switch name {
		case "world_seed":
			o.WorldSeed = cast.ToUint64(rest[0])
		case "worker_count":
			o.WorkerCount = cast.ToInt(rest[0])
		case "max_age":
			o.MaxAge = cast.ToInt(rest[0])
		case "initial_population":
			o.InitialPopulation = cast.ToInt(rest[0])
		case "total_capacity":
			o.TotalCapacity = cast.ToInt(rest[0])
		case "min_q":
			o.MinQ = cast.ToFloat64(rest[0])
		case "floor_score":
			o.FloorScore = cast.ToFloat64(rest[0])
		case "capacity_epsilon":
			o.CapacityEpsilon = cast.ToFloat64(rest[0])
		case "mutation_power":
			o.MutationPower = cast.ToFloat64(rest[0])
		case "log_level":
			o.LogLevel = rest[0]
		case "bound":
			if len(rest) != 3 {
				return nil, errors.Errorf("bound line must have 3 fields, got %d", len(rest))
			}
			o.Bounds = append(o.Bounds, dimension.Dimension{
				Lo: cast.ToFloat64(rest[0]),
				Hi: cast.ToFloat64(rest[1]),
				Q:  cast.ToFloat64(rest[2]),
			})
		default:
			return nil, errors.Errorf("unknown configuration parameter found: %s", name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := InitLogger(o.LogLevel); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	if err := o.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine options")
	}
	return o, nil
}

// ReadOptionsFromFile reads Options from configFilePath, resolving encoding
// by file extension: .yml/.yaml uses LoadYAMLOptions, anything else uses
// LoadPlainOptions.
func ReadOptionsFromFile(configFilePath string) (*Options, error) {
	f, err := os.Open(configFilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	if strings.HasSuffix(configFilePath, ".yml") || strings.HasSuffix(configFilePath, ".yaml") {
		return LoadYAMLOptions(f)
	}
	return LoadPlainOptions(f)
}

// String implements fmt.Stringer for debug logging.
func (o *Options) String() string {
	return fmt.Sprintf("Options{seed=%d workers=%d pop=%d capacity=%d minQ=%v}",
		o.WorldSeed, o.WorkerCount, o.InitialPopulation, o.TotalCapacity, o.MinQ)
}
