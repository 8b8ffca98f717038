// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial pool and token-ledger state from a user
// supplied yaml config.
package genesis

import (
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakepond/pond/pond"
	"github.com/stakepond/pond/staking"
	"github.com/stakepond/pond/token"
)

// Allocation is a token balance minted to an account at genesis.
// Balance is a decimal string in the smallest token unit.
type Allocation struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

// Config is the user customized genesis of a pool.
type Config struct {
	Owner        string       `yaml:"owner"`
	Custody      string       `yaml:"custody"`
	FeeRecipient string       `yaml:"feeRecipient"`
	FeePercent   uint64       `yaml:"feePercent"`
	Allocations  []Allocation `yaml:"allocations"`
}

// Load reads and validates a genesis config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes and validates a yaml genesis config.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "parse genesis file")
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	owner, err := pond.ParseAddress(c.Owner)
	if err != nil {
		return errors.WithMessage(err, "invalid owner")
	}
	if owner.IsZero() {
		return errors.New("owner must not be the zero address")
	}
	custody, err := pond.ParseAddress(c.Custody)
	if err != nil {
		return errors.WithMessage(err, "invalid custody")
	}
	if custody.IsZero() {
		return errors.New("custody must not be the zero address")
	}
	recipient, err := pond.ParseAddress(c.FeeRecipient)
	if err != nil {
		return errors.WithMessage(err, "invalid fee recipient")
	}
	if recipient.IsZero() {
		return errors.New("fee recipient must not be the zero address")
	}
	if c.FeePercent > staking.MaxFeePercent {
		return errors.Errorf("fee percent %d exceeds maximum %d", c.FeePercent, staking.MaxFeePercent)
	}
	for i, alloc := range c.Allocations {
		if _, err := pond.ParseAddress(alloc.Address); err != nil {
			return errors.WithMessagef(err, "allocation #%d", i)
		}
		if _, err := uint256.FromDecimal(alloc.Balance); err != nil {
			return errors.WithMessagef(err, "allocation #%d balance", i)
		}
	}
	return nil
}

// Build creates the token ledger with the configured allocations and a fresh
// pool wired to it. sink may be nil.
func (c *Config) Build(sink staking.EventSink) (*staking.Pool, *token.Ledger, error) {
	if err := c.validate(); err != nil {
		return nil, nil, err
	}

	ledger := token.New()
	for _, alloc := range c.Allocations {
		addr := pond.MustParseAddress(alloc.Address)
		balance := uint256.MustFromDecimal(alloc.Balance)
		if err := ledger.Mint(addr, balance); err != nil {
			return nil, nil, errors.WithMessagef(err, "mint allocation for %s", addr)
		}
	}

	pool, err := staking.New(
		pond.MustParseAddress(c.Custody),
		ledger,
		staking.SoleOwner(pond.MustParseAddress(c.Owner)),
		pond.MustParseAddress(c.FeeRecipient),
		c.FeePercent,
		sink,
	)
	if err != nil {
		return nil, nil, err
	}
	return pool, ledger, nil
}
