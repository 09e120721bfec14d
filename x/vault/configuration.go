package vault

import (
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/gconf"
	"github.com/iov-one/treasury/orm"
)

// ConfigurationPkg is the name the configuration is stored under.
const ConfigurationPkg = "vault"

// Voting and proposal policies.
const (
	// PolicyOwners allows only members with the Owner role.
	PolicyOwners = "owners"
	// PolicyMembers allows any member that is not inactive.
	PolicyMembers = "members"
	// PolicyOpen allows anyone, as long as the vault is active.
	PolicyOpen = "open"
)

// Configuration holds the policies shared by all vaults of an engine.
type Configuration struct {
	// VotingPolicy is either PolicyOwners or PolicyMembers.
	VotingPolicy string `json:"voting_policy"`
	// ProposalPolicy is either PolicyMembers or PolicyOpen. It applies to
	// creating and editing proposals.
	ProposalPolicy           string `json:"proposal_policy"`
	AllowDepositWhenInactive bool   `json:"allow_deposit_when_inactive"`
	// MaxMembers limits the number of roster slots of a single vault.
	MaxMembers     uint32 `json:"max_members"`
	MaxPayloadSize uint32 `json:"max_payload_size"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration returns the configuration used when none was
// provided.
func DefaultConfiguration() Configuration {
	return Configuration{
		VotingPolicy:   PolicyOwners,
		ProposalPolicy: PolicyMembers,
		MaxMembers:     100,
		MaxPayloadSize: 1024,
	}
}

func (c *Configuration) Marshal() ([]byte, error) {
	return orm.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, c)
}

// Validate ensures the configuration is valid.
func (c *Configuration) Validate() error {
	var errs error
	switch c.VotingPolicy {
	case PolicyOwners, PolicyMembers:
	default:
		errs = errors.AppendField(errs, "VotingPolicy",
			errors.Wrapf(errors.ErrInput, "unknown policy %q", c.VotingPolicy))
	}
	switch c.ProposalPolicy {
	case PolicyMembers, PolicyOpen:
	default:
		errs = errors.AppendField(errs, "ProposalPolicy",
			errors.Wrapf(errors.ErrInput, "unknown policy %q", c.ProposalPolicy))
	}
	if c.MaxMembers == 0 {
		errs = errors.AppendField(errs, "MaxMembers", errors.ErrEmpty)
	}
	return errs
}

// LoadConfiguration returns the stored configuration, or the default one if
// none was stored.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, ConfigurationPkg, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		conf = DefaultConfiguration()
		return &conf, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}
