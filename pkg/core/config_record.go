package core

// configReservedLen sizes the forward-compatibility block; shrinking it
// would shift the disambiguation byte of every existing config record.
const configReservedLen = 1024

const configSize = 1 + PubkeyLen + PubkeyLen + 8 + configReservedLen + 1

// Config is the singleton record for the program: the admin identity,
// the companion vault program its restaking operations are delegated
// to, and the count of vaults registered so far.
type Config struct {
	admin        Pubkey
	vaultProgram Pubkey
	numVaults    uint64
	bump         uint8
}

// NewConfig returns a config record with zero registered vaults.
func NewConfig(admin, vaultProgram Pubkey, bump uint8) *Config {
	return &Config{
		admin:        admin,
		vaultProgram: vaultProgram,
		bump:         bump,
	}
}

func (c *Config) Admin() Pubkey {
	return c.admin
}

func (c *Config) VaultProgram() Pubkey {
	return c.vaultProgram
}

func (c *Config) NumVaults() uint64 {
	return c.numVaults
}

// IncrementVaults bumps the vault registration counter.
func (c *Config) IncrementVaults() error {
	if c.numVaults == ^uint64(0) {
		return ErrCounterOverflow
	}
	c.numVaults++
	return nil
}

func (c *Config) Bump() uint8 {
	return c.bump
}

// ConfigSeeds is the seed tuple of the config singleton.
func ConfigSeeds() [][]byte {
	return [][]byte{[]byte("config")}
}

// FindConfigAddress derives the canonical config address.
func FindConfigAddress(program Pubkey) (Pubkey, uint8) {
	return FindRecordAddress(program, ConfigSeeds()...)
}

// Initialize claims an empty region for this config record.
func (c *Config) Initialize(program Pubkey, acct *Account) error {
	return initializeRecord(program, acct, c)
}

// SanitizeConfig validates and deserializes a config account.
func SanitizeConfig(program Pubkey, acct *Account, expectWritable bool) (*Validated[Config], error) {
	return sanitizeRecord[Config, *Config](program, acct, expectWritable)
}

func (c *Config) recordType() AccountType {
	return AccountTypeConfig
}

func (c *Config) seeds() [][]byte {
	return ConfigSeeds()
}

func (c *Config) recordBump() uint8 {
	return c.bump
}

func (c *Config) marshal() []byte {
	w := newRecordWriter(configSize)
	w.writeType(AccountTypeConfig)
	w.writePubkey(c.admin)
	w.writePubkey(c.vaultProgram)
	w.writeU64(c.numVaults)
	w.writeReserved(configReservedLen)
	w.writeU8(c.bump)
	return w.bytes()
}

func (c *Config) unmarshal(data []byte) error {
	r := newRecordReader(data)
	if err := r.readType(AccountTypeConfig); err != nil {
		return err
	}
	var err error
	if c.admin, err = r.readPubkey(); err != nil {
		return err
	}
	if c.vaultProgram, err = r.readPubkey(); err != nil {
		return err
	}
	if c.numVaults, err = r.readU64(); err != nil {
		return err
	}
	if err = r.skipReserved(configReservedLen); err != nil {
		return err
	}
	if c.bump, err = r.readU8(); err != nil {
		return err
	}
	return nil
}
