package election

import (
	"io"
	"os"

	"go.dedis.ch/elector/core/idgen"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// ResultsGate is the time condition under which the results of an election
// can be computed.
type ResultsGate string

const (
	// GateRunning allows the results while the end time is still ahead.
	GateRunning ResultsGate = "running"

	// GateEnded allows the results once the end time has passed.
	GateEnded ResultsGate = "ended"
)

// DefaultVerificationMinLength is the payload length that the reference
// verifier must exceed.
const DefaultVerificationMinLength = 8

// Config is the configuration of the election contract.
type Config struct {
	// CandidateFee is the candidacy fee set by the initialization when the
	// transaction does not provide one.
	CandidateFee uint64 `yaml:"candidate_fee"`

	// MaxIDAttempts is the number of draws to find a free identifier.
	MaxIDAttempts int `yaml:"max_id_attempts"`

	// ResultsGate decides whether the results are open while the election
	// runs or once it has ended.
	ResultsGate ResultsGate `yaml:"results_gate"`

	// AdminOnlyEnd restricts the end of an election to its admin.
	AdminOnlyEnd bool `yaml:"admin_only_end"`

	// VerificationMinLength is the length a self-registration payload must
	// exceed with the default verifier.
	VerificationMinLength int `yaml:"verification_min_length"`
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		CandidateFee:          0,
		MaxIDAttempts:         idgen.DefaultMaxAttempts,
		ResultsGate:           GateRunning,
		AdminOnlyEnd:          false,
		VerificationMinLength: DefaultVerificationMinLength,
	}
}

// LoadConfig reads a YAML configuration. Missing fields keep their default
// value and unknown fields are refused.
func LoadConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to read config: %v", err)
	}

	cfg := DefaultConfig()

	err = yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to decode config: %v", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, xerrors.Errorf("invalid config: %v", err)
	}

	return cfg, nil
}

// LoadConfigFile reads the configuration from the file.
func LoadConfigFile(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to open config: %v", err)
	}

	defer file.Close()

	return LoadConfig(file)
}

// Validate returns an error if a field has a value the contract cannot use.
func (c Config) Validate() error {
	if c.MaxIDAttempts <= 0 {
		return xerrors.Errorf("max_id_attempts must be positive: %d", c.MaxIDAttempts)
	}

	if c.ResultsGate != GateRunning && c.ResultsGate != GateEnded {
		return xerrors.Errorf("unknown results_gate '%s'", c.ResultsGate)
	}

	if c.VerificationMinLength < 0 {
		return xerrors.Errorf("verification_min_length must not be negative: %d",
			c.VerificationMinLength)
	}

	return nil
}
